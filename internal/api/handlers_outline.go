package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dgallion1/marktree/internal/markdown"
	"github.com/dgallion1/marktree/internal/outline"
	"github.com/dgallion1/marktree/internal/session"
	"github.com/go-chi/chi/v5"
)

// session resolves the docID URL parameter to an open editing session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		storeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	f := sess.Forest()
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      sess.DocID(),
		"name":    sess.Name(),
		"forest":  f,
		"visible": outline.Flatten(f),
		"dirty":   sess.Dirty(),
	})
}

func (s *Server) handleGetMarkdown(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, sess.Markdown())
}

// handlePutMarkdown replaces the document outline with the request body.
func (s *Server) handlePutMarkdown(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if int64(len(body)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	f := sess.Import(string(body))
	writeJSON(w, http.StatusOK, map[string]any{"forest": f})
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	html, err := markdown.RenderHTML(sess.Forest())
	if err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var op session.Op
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&op); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := sess.Apply(op)
	if errors.Is(err, session.ErrUnknownOp) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleNavigate returns the visible neighbour of a node; id is null at the
// ends of the outline or when the node is hidden.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	from := r.URL.Query().Get("from")
	if from == "" {
		jsonError(w, "from query parameter is required", http.StatusBadRequest)
		return
	}
	dir, err := outline.ParseDirection(r.URL.Query().Get("dir"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var next *string
	if id, found := sess.Navigate(from, dir); found {
		next = &id
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": next})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		s.log.Error("save failed", "doc_id", sess.DocID(), "error", err)
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}
