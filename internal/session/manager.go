package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/marktree/internal/store"
)

// Manager keeps open sessions keyed by document id and closes idle ones.
type Manager struct {
	store store.Store
	log   *slog.Logger
	ttl   time.Duration
	opts  Options

	mu       sync.Mutex
	sessions map[string]*Session

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(s store.Store, log *slog.Logger, ttl, autosaveDelay time.Duration) *Manager {
	return &Manager{
		store:    s,
		log:      log,
		ttl:      ttl,
		opts:     Options{AutosaveDelay: autosaveDelay, Log: log},
		sessions: make(map[string]*Session),
	}
}

// Get returns the open session for docID, opening it on first use.
func (m *Manager) Get(ctx context.Context, docID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[docID]; ok {
		sess.touch()
		return sess, nil
	}
	sess, err := Open(ctx, m.store, docID, m.opts)
	if err != nil {
		return nil, err
	}
	m.sessions[docID] = sess
	m.log.Info("session opened", "doc_id", docID)
	return sess, nil
}

// Drop forgets a session without saving it, for documents that were deleted.
func (m *Manager) Drop(docID string) {
	m.mu.Lock()
	sess, ok := m.sessions[docID]
	delete(m.sessions, docID)
	m.mu.Unlock()
	if ok {
		sess.stop()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Cleanup closes sessions idle for longer than the TTL, saving dirty ones.
// A session whose save fails stays open so its edits are retried on the
// next sweep.
func (m *Manager) Cleanup(ctx context.Context) {
	now := time.Now()
	var expired []*Session
	m.mu.Lock()
	for _, sess := range m.sessions {
		if sess.idleSince(now) > m.ttl {
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		if sess.Dirty() {
			if err := sess.Save(ctx); err != nil {
				m.log.Error("save on evict failed, keeping session", "doc_id", sess.DocID(), "error", err)
				continue
			}
		}

		m.mu.Lock()
		// Get or an edit may have used the session while it was saving.
		evict := m.sessions[sess.DocID()] == sess && sess.idleSince(now) > m.ttl && !sess.Dirty()
		if evict {
			delete(m.sessions, sess.DocID())
			sess.stop()
		}
		m.mu.Unlock()
		if evict {
			m.log.Info("session evicted", "doc_id", sess.DocID())
		}
	}
}

// Start launches the periodic idle-session sweep.
func (m *Manager) Start(ctx context.Context) {
	sweepCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	interval := m.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval <= 0 {
		interval = time.Second
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				m.Cleanup(sweepCtx)
			}
		}
	}()
}

// Stop ends the sweep and closes every session, saving pending edits.
func (m *Manager) Stop(ctx context.Context) {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()

	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, sess := range m.sessions {
		all = append(all, sess)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, sess := range all {
		if err := sess.Close(ctx); err != nil {
			m.log.Error("save on shutdown failed", "doc_id", sess.DocID(), "error", err)
		}
	}
}
