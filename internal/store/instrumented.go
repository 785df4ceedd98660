package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgallion1/marktree/internal/outline"
)

// Instrumented wraps a Store and records per-operation latency.
type Instrumented struct {
	Store
	window time.Duration

	mu    sync.Mutex
	stats map[string]*LatencyStats
}

func NewInstrumented(s Store, window time.Duration) *Instrumented {
	return &Instrumented{Store: s, window: window, stats: make(map[string]*LatencyStats)}
}

// Snapshot returns latency aggregates keyed by operation name.
func (i *Instrumented) Snapshot() map[string]StatsSnapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make(map[string]StatsSnapshot, len(i.stats))
	for op, s := range i.stats {
		out[op] = s.Snapshot()
	}
	return out
}

func (i *Instrumented) observe(op string, start time.Time, err error) {
	i.mu.Lock()
	s, ok := i.stats[op]
	if !ok {
		s = NewLatencyStats(i.window)
		i.stats[op] = s
	}
	i.mu.Unlock()
	// Missing documents are an answer, not a backend failure.
	s.Record(time.Since(start).Milliseconds(), err != nil && !errors.Is(err, ErrNotFound))
}

func (i *Instrumented) List(ctx context.Context) (files []File, err error) {
	defer func(start time.Time) { i.observe("list", start, err) }(time.Now())
	return i.Store.List(ctx)
}

func (i *Instrumented) Get(ctx context.Context, id string) (f File, err error) {
	defer func(start time.Time) { i.observe("get", start, err) }(time.Now())
	return i.Store.Get(ctx, id)
}

func (i *Instrumented) Content(ctx context.Context, id string) (content string, ok bool, err error) {
	defer func(start time.Time) { i.observe("content", start, err) }(time.Now())
	return i.Store.Content(ctx, id)
}

func (i *Instrumented) Create(ctx context.Context, name, content string) (id string, err error) {
	defer func(start time.Time) { i.observe("create", start, err) }(time.Now())
	return i.Store.Create(ctx, name, content)
}

func (i *Instrumented) Update(ctx context.Context, id, content string) (err error) {
	defer func(start time.Time) { i.observe("update", start, err) }(time.Now())
	return i.Store.Update(ctx, id, content)
}

func (i *Instrumented) Rename(ctx context.Context, id, name string) (err error) {
	defer func(start time.Time) { i.observe("rename", start, err) }(time.Now())
	return i.Store.Rename(ctx, id, name)
}

func (i *Instrumented) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { i.observe("delete", start, err) }(time.Now())
	return i.Store.Delete(ctx, id)
}

func (i *Instrumented) ViewState(ctx context.Context, id string) (vs *outline.ViewState, err error) {
	defer func(start time.Time) { i.observe("view_state", start, err) }(time.Now())
	return i.Store.ViewState(ctx, id)
}

func (i *Instrumented) SaveViewState(ctx context.Context, id string, vs outline.ViewState) (err error) {
	defer func(start time.Time) { i.observe("save_view_state", start, err) }(time.Now())
	return i.Store.SaveViewState(ctx, id, vs)
}

func (i *Instrumented) FindByHash(ctx context.Context, hash string) (id string, ok bool, err error) {
	defer func(start time.Time) { i.observe("find_by_hash", start, err) }(time.Now())
	return i.Store.FindByHash(ctx, hash)
}
