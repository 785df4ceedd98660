package api

import (
	"net/http"

	"github.com/dgallion1/marktree/internal/store"
)

func (s *Server) handleStoreStats(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.store.(*store.Instrumented)
	if !ok {
		jsonError(w, "store stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"backend":     s.cfg.StoreBackend,
		"queue_depth": s.orchestrator.QueueDepth(),
		"operations":  inst.Snapshot(),
	})
}
