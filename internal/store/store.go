// Package store persists outline documents as Markdown text plus a
// per-document view state.
package store

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/marktree/internal/outline"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// File describes a stored document.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a document backend.
type Store interface {
	// List returns all documents, most recently created first.
	List(ctx context.Context) ([]File, error)
	Get(ctx context.Context, id string) (File, error)
	// Content returns the document's Markdown. ok is false when the document
	// exists but has no content.
	Content(ctx context.Context, id string) (content string, ok bool, err error)
	Create(ctx context.Context, name, content string) (string, error)
	Update(ctx context.Context, id, content string) error
	Rename(ctx context.Context, id, name string) error
	// Delete removes the document and its view state.
	Delete(ctx context.Context, id string) error
	// ViewState returns nil when none was saved or it cannot be decoded.
	ViewState(ctx context.Context, id string) (*outline.ViewState, error)
	SaveViewState(ctx context.Context, id string, vs outline.ViewState) error
	// FindByHash returns a document whose content hashes to hash.
	FindByHash(ctx context.Context, hash string) (id string, ok bool, err error)
	Close() error
}

// RetryableError indicates a transient backend failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, msg)
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

func newDocumentID() string {
	return uuid.Must(uuid.NewV7()).String()
}
