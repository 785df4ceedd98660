package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/marktree/internal/outline"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	content      TEXT,
	content_hash TEXT NOT NULL DEFAULT '',
	view_state   TEXT,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
`

// SQLite stores documents in a single SQLite table.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path with WAL
// journaling, a busy timeout and NORMAL synchronous mode.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: exec schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// OpenMemory opens an in-memory store that is closed when the test ends.
func OpenMemory(t testing.TB) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) List(ctx context.Context) ([]File, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM documents ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	files := []File{}
	for rows.Next() {
		var f File
		var created, updated int64
		if err := rows.Scan(&f.ID, &f.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		f.CreatedAt = time.Unix(0, created)
		f.UpdatedAt = time.Unix(0, updated)
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, id string) (File, error) {
	f := File{ID: id}
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, created_at, updated_at FROM documents WHERE id = ?`, id).
		Scan(&f.Name, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, fmt.Errorf("get document %s: %w", id, err)
	}
	f.CreatedAt = time.Unix(0, created)
	f.UpdatedAt = time.Unix(0, updated)
	return f, nil
}

func (s *SQLite) Content(ctx context.Context, id string) (string, bool, error) {
	var content sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT content FROM documents WHERE id = ?`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, ErrNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("read content %s: %w", id, err)
	}
	return content.String, content.Valid, nil
}

func (s *SQLite) Create(ctx context.Context, name, content string) (string, error) {
	id := newDocumentID()
	now := s.now().UnixNano()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, name, content, content_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, content, ContentHashHex([]byte(content)), now, now)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

func (s *SQLite) Update(ctx context.Context, id, content string) error {
	return s.exec(ctx, id,
		`UPDATE documents SET content = ?, content_hash = ?, updated_at = ? WHERE id = ?`,
		content, ContentHashHex([]byte(content)), s.now().UnixNano(), id)
}

func (s *SQLite) Rename(ctx context.Context, id, name string) error {
	return s.exec(ctx, id,
		`UPDATE documents SET name = ?, updated_at = ? WHERE id = ?`,
		name, s.now().UnixNano(), id)
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	return s.exec(ctx, id, `DELETE FROM documents WHERE id = ?`, id)
}

func (s *SQLite) ViewState(ctx context.Context, id string) (*outline.ViewState, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT view_state FROM documents WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read view state %s: %w", id, err)
	}
	if !raw.Valid {
		return nil, nil
	}
	var vs outline.ViewState
	if err := json.Unmarshal([]byte(raw.String), &vs); err != nil {
		return nil, nil
	}
	return &vs, nil
}

func (s *SQLite) SaveViewState(ctx context.Context, id string, vs outline.ViewState) error {
	data, err := json.Marshal(vs)
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	return s.exec(ctx, id, `UPDATE documents SET view_state = ? WHERE id = ?`, string(data), id)
}

func (s *SQLite) FindByHash(ctx context.Context, hash string) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE content_hash = ? ORDER BY created_at LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find by hash: %w", err)
	}
	return id, true, nil
}

// exec runs a single-row write and maps zero affected rows to ErrNotFound.
func (s *SQLite) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("write document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write document %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
