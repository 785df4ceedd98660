// Package session holds the authoritative outline for open documents and
// applies edits to it one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/marktree/internal/markdown"
	"github.com/dgallion1/marktree/internal/outline"
	"github.com/dgallion1/marktree/internal/store"
)

// ErrUnknownOp is returned by Apply for an unrecognized op kind.
var ErrUnknownOp = errors.New("unknown op")

// OpKind names an editing operation.
type OpKind string

const (
	OpAdd            OpKind = "add"
	OpDelete         OpKind = "delete"
	OpIndent         OpKind = "indent"
	OpOutdent        OpKind = "outdent"
	OpToggleCollapse OpKind = "toggle_collapse"
	OpUpdateText     OpKind = "update_text"
)

// Op is a single edit. ParentID is only read by add, where empty means a new
// root. Text is only read by update_text.
type Op struct {
	Kind     OpKind `json:"kind"`
	ID       string `json:"id,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Result is the outline after an op and the node that should take focus.
// FocusID is empty when focus should not move.
type Result struct {
	Forest  outline.Forest `json:"forest"`
	FocusID string         `json:"focus_id"`
}

// Options configures a session.
type Options struct {
	// AutosaveDelay is the idle time after the last edit before a dirty
	// session saves itself. Zero disables autosave.
	AutosaveDelay time.Duration
	Log           *slog.Logger
}

// Session is one open document.
type Session struct {
	store store.Store
	log   *slog.Logger
	docID string
	name  string
	delay time.Duration

	// saveMu orders writes to the store so an older outline never lands
	// after a newer one.
	saveMu sync.Mutex

	mu       sync.Mutex
	forest   outline.Forest
	version  uint64
	saved    uint64
	lastUsed time.Time
	timer    *time.Timer
	closed   bool
}

// Open loads a document, substituting the welcome template when it has no
// content, and restores its saved collapse state.
func Open(ctx context.Context, s store.Store, docID string, opts Options) (*Session, error) {
	file, err := s.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", docID, err)
	}
	content, ok, err := s.Content(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", docID, err)
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("doc_id", docID)
	if !ok {
		log.Warn("document has no content, using template")
		content = markdown.Template(file.Name)
	}

	forest := markdown.Parse(content)
	vs, err := s.ViewState(ctx, docID)
	if err != nil {
		log.Warn("view state unavailable", "error", err)
	} else if vs != nil {
		forest = outline.ApplyViewState(forest, *vs)
	}

	return &Session{
		store:    s,
		log:      log,
		docID:    docID,
		name:     file.Name,
		delay:    opts.AutosaveDelay,
		forest:   forest,
		lastUsed: time.Now(),
	}, nil
}

func (s *Session) DocID() string { return s.docID }
func (s *Session) Name() string  { return s.name }

// Forest returns the current outline. The value is never modified by later
// edits, so it is safe to read after the lock is released.
func (s *Session) Forest() outline.Forest {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.forest
}

// Dirty reports whether there are edits that have not been saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version != s.saved
}

// Apply performs op against the current outline and makes the result
// authoritative. Ops naming a missing node leave the outline unchanged.
func (s *Session) Apply(op Op) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next outline.Forest
	var focus string
	switch op.Kind {
	case OpAdd:
		next, focus = outline.Add(s.forest, op.ParentID)
	case OpDelete:
		next = outline.Delete(s.forest, op.ID)
	case OpIndent:
		next = outline.Indent(s.forest, op.ID)
		focus = op.ID
	case OpOutdent:
		next = outline.Outdent(s.forest, op.ID)
		focus = op.ID
	case OpToggleCollapse:
		next = outline.ToggleCollapse(s.forest, op.ID)
	case OpUpdateText:
		next = outline.UpdateText(s.forest, op.ID, op.Text)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOp, op.Kind)
	}
	if focus != "" && next.Find(focus) == nil {
		focus = ""
	}

	s.replaceLocked(next)
	return Result{Forest: next, FocusID: focus}, nil
}

// Import replaces the whole outline with parsed Markdown. Blank input
// clears the document.
func (s *Session) Import(md string) outline.Forest {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := markdown.Parse(md)
	s.replaceLocked(next)
	return next
}

// Markdown serializes the current outline.
func (s *Session) Markdown() string {
	return markdown.Serialize(s.Forest())
}

// Navigate returns the visible node above or below currentID.
func (s *Session) Navigate(currentID string, dir outline.Direction) (string, bool) {
	return outline.Navigate(s.Forest(), currentID, dir)
}

// Save writes the Markdown and collapse state to the store. It always writes
// the latest outline; a save that finds that version already stored by an
// earlier call does nothing.
func (s *Session) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	forest, version := s.forest, s.version
	current := version > 0 && version <= s.saved
	s.mu.Unlock()
	if current {
		return nil
	}

	if err := s.store.Update(ctx, s.docID, markdown.Serialize(forest)); err != nil {
		return fmt.Errorf("save %s: %w", s.docID, err)
	}
	if err := s.store.SaveViewState(ctx, s.docID, outline.CaptureViewState(forest)); err != nil {
		return fmt.Errorf("save view state %s: %w", s.docID, err)
	}

	s.mu.Lock()
	s.saved = version
	s.mu.Unlock()
	s.log.Info("document saved", "version", version)
	return nil
}

// Close stops autosave and saves pending edits.
func (s *Session) Close(ctx context.Context) error {
	s.stop()
	if !s.Dirty() {
		return nil
	}
	return s.Save(ctx)
}

// stop disables autosave for good.
func (s *Session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Session) replaceLocked(next outline.Forest) {
	s.forest = next
	s.version++
	s.lastUsed = time.Now()
	s.scheduleLocked()
}

// scheduleLocked restarts the autosave debounce timer.
func (s *Session) scheduleLocked() {
	if s.delay <= 0 || s.closed {
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.autosave)
		return
	}
	s.timer.Reset(s.delay)
}

func (s *Session) autosave() {
	s.mu.Lock()
	skip := s.closed || s.version == s.saved
	s.mu.Unlock()
	if skip {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Save(ctx); err != nil {
		s.log.Error("autosave failed", "error", err)
	}
}
