package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/marktree/internal/outline"
)

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	t := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	files, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty store, got %d files", len(files))
	}

	first, err := s.Create(ctx, "first.md", "# first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.Create(ctx, "second.md", "# second")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct ids")
	}

	files, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 || files[0].ID != second || files[1].ID != first {
		t.Fatalf("expected newest first, got %+v", files)
	}

	content, ok, err := s.Content(ctx, first)
	if err != nil || !ok || content != "# first" {
		t.Fatalf("expected stored content, got %q ok=%v err=%v", content, ok, err)
	}

	if err := s.Update(ctx, first, "# first\nbody"); err != nil {
		t.Fatalf("update: %v", err)
	}
	content, _, _ = s.Content(ctx, first)
	if content != "# first\nbody" {
		t.Errorf("expected updated content, got %q", content)
	}

	hash := ContentHashHex([]byte("# first\nbody"))
	if id, ok, err := s.FindByHash(ctx, hash); err != nil || !ok || id != first {
		t.Errorf("expected hash lookup to find %s, got %q ok=%v err=%v", first, id, ok, err)
	}
	if _, ok, _ := s.FindByHash(ctx, ContentHashHex([]byte("# first"))); ok {
		t.Error("expected stale hash to be gone after update")
	}

	if err := s.Rename(ctx, first, "renamed.md"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	f, err := s.Get(ctx, first)
	if err != nil || f.Name != "renamed.md" {
		t.Errorf("expected renamed file, got %+v err=%v", f, err)
	}

	vs, err := s.ViewState(ctx, first)
	if err != nil || vs != nil {
		t.Fatalf("expected no view state, got %+v err=%v", vs, err)
	}
	want := outline.ViewState{CollapsedPaths: [][]int{{0}, {1, 2}}}
	if err := s.SaveViewState(ctx, first, want); err != nil {
		t.Fatalf("save view state: %v", err)
	}
	vs, err = s.ViewState(ctx, first)
	if err != nil || vs == nil || len(vs.CollapsedPaths) != 2 || vs.CollapsedPaths[1][1] != 2 {
		t.Fatalf("expected saved view state, got %+v err=%v", vs, err)
	}

	if err := s.Delete(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.Content(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.ViewState(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected view state removed with document, got %v", err)
	}
	if _, ok, _ := s.FindByHash(ctx, hash); ok {
		t.Error("expected hash index entry removed with document")
	}

	for name, err := range map[string]error{
		"update": s.Update(ctx, "missing", "x"),
		"rename": s.Rename(ctx, "missing", "x"),
		"delete": s.Delete(ctx, "missing"),
		"save":   s.SaveViewState(ctx, "missing", outline.ViewState{}),
	} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
}

func TestRetryableErrorTruncates(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	err := &RetryableError{StatusCode: 503, Message: string(long)}
	got := err.Error()
	if len(got) > 250 {
		t.Errorf("expected truncated message, got %d bytes", len(got))
	}
}
