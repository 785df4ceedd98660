package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dgallion1/marktree/internal/outline"
)

func TestSQLiteStore(t *testing.T) {
	s := OpenMemory(t)
	s.now = tick()
	exerciseStore(t, s)
}

func TestSQLite_NullContent(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()
	id, err := s.Create(ctx, "x.md", "# x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE documents SET content = NULL WHERE id = ?`, id); err != nil {
		t.Fatalf("clear content: %v", err)
	}
	content, ok, err := s.Content(ctx, id)
	if err != nil || ok || content != "" {
		t.Errorf("expected missing content, got %q ok=%v err=%v", content, ok, err)
	}
}

func TestSQLite_CorruptViewStateIgnored(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()
	id, _ := s.Create(ctx, "x.md", "# x")
	if _, err := s.db.Exec(`UPDATE documents SET view_state = '{not json' WHERE id = ?`, id); err != nil {
		t.Fatalf("corrupt view state: %v", err)
	}
	vs, err := s.ViewState(ctx, id)
	if err != nil || vs != nil {
		t.Errorf("expected nil view state, got %+v err=%v", vs, err)
	}
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "marktree.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id, err := s.Create(ctx, "keep.md", "# keep")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.SaveViewState(ctx, id, outline.ViewState{CollapsedPaths: [][]int{{0}}}); err != nil {
		t.Fatalf("save view state: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	content, ok, err := s.Content(ctx, id)
	if err != nil || !ok || content != "# keep" {
		t.Errorf("expected content to survive reopen, got %q ok=%v err=%v", content, ok, err)
	}
	vs, _ := s.ViewState(ctx, id)
	if vs == nil || len(vs.CollapsedPaths) != 1 {
		t.Errorf("expected view state to survive reopen, got %+v", vs)
	}
}
