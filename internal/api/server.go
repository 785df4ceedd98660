package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/marktree/internal/config"
	"github.com/dgallion1/marktree/internal/pipeline"
	"github.com/dgallion1/marktree/internal/session"
	"github.com/dgallion1/marktree/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for marktree.
type Server struct {
	router       chi.Router
	store        store.Store
	sessions     *session.Manager
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(st store.Store, sessions *session.Manager, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:        st,
		sessions:     sessions,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/documents", s.handleListDocuments)
		r.Post("/api/documents", s.handleCreateDocument)
		r.Route("/api/documents/{docID}", func(r chi.Router) {
			r.Patch("/", s.handleRenameDocument)
			r.Delete("/", s.handleDeleteDocument)

			r.Get("/outline", s.handleOutline)
			r.Get("/markdown", s.handleGetMarkdown)
			r.Put("/markdown", s.handlePutMarkdown)
			r.Get("/html", s.handleHTML)
			r.Post("/ops", s.handleOps)
			r.Get("/navigate", s.handleNavigate)
			r.Post("/save", s.handleSave)
		})

		r.Post("/api/import", s.handleImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)

		r.Get("/api/stats/store", s.handleStoreStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
