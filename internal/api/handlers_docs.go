package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/marktree/internal/markdown"
	"github.com/dgallion1/marktree/internal/store"
	"github.com/go-chi/chi/v5"
)

type nameRequest struct {
	Name string `json:"name"`
}

func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req nameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return "", false
	}
	return name, true
}

// storeError maps store failures to HTTP status codes.
func storeError(w http.ResponseWriter, err error) {
	var retryErr *store.RetryableError
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "document not found", http.StatusNotFound)
	case errors.As(err, &retryErr):
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleListDocuments lists all documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.List(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": files})
}

// handleCreateDocument creates a document holding just its title heading.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	id, err := s.store.Create(r.Context(), name, markdown.InitialContent(name))
	if err != nil {
		storeError(w, err)
		return
	}
	s.log.Info("document created", "doc_id", id, "name", name)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "name": name})
}

func (s *Server) handleRenameDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	if err := s.store.Rename(r.Context(), docID, name); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": docID, "name": name})
}

// handleDeleteDocument deletes a document, its view state and any open session.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.store.Delete(r.Context(), docID); err != nil {
		storeError(w, err)
		return
	}
	s.sessions.Drop(docID)
	s.log.Info("document deleted", "doc_id", docID)
	w.WriteHeader(http.StatusNoContent)
}
