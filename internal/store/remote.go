package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/marktree/internal/outline"
	"github.com/dgallion1/marktree/internal/pathstore"
)

const (
	documentsKey = "marktree/documents"
	byHashKey    = "marktree/by_hash"
)

// Remote stores documents in a pathstore service under
// marktree/documents/<id>/{meta,content,viewstate}.
type Remote struct {
	client *pathstore.Client
	now    func() time.Time
}

type remoteMeta struct {
	Name        string    `json:"name"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type remoteContent struct {
	Text string `json:"text"`
}

func NewRemote(client *pathstore.Client) *Remote {
	return &Remote{client: client, now: time.Now}
}

func docKey(id, part string) string {
	return documentsKey + "/" + id + "/" + part
}

func (r *Remote) Close() error {
	r.client.Close()
	return nil
}

func (r *Remote) List(ctx context.Context) ([]File, error) {
	nodes, err := r.client.ListChildren(ctx, documentsKey, 0)
	if err != nil {
		return nil, wrapRemote(err)
	}
	files := []File{}
	for _, n := range nodes {
		segs := keySegments(strings.TrimPrefix(n.Key, documentsKey))
		if len(segs) != 2 || segs[1] != "meta" {
			continue
		}
		var m remoteMeta
		if err := json.Unmarshal(n.Value, &m); err != nil {
			continue
		}
		files = append(files, File{ID: segs[0], Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt})
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

func (r *Remote) Get(ctx context.Context, id string) (File, error) {
	m, err := r.meta(ctx, id)
	if err != nil {
		return File{}, err
	}
	return File{ID: id, Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}, nil
}

func (r *Remote) Content(ctx context.Context, id string) (string, bool, error) {
	node, err := r.client.GetNode(ctx, docKey(id, "content"))
	if err != nil {
		return "", false, wrapRemote(err)
	}
	if node == nil {
		if _, err := r.meta(ctx, id); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	var c remoteContent
	if err := json.Unmarshal(node.Value, &c); err != nil {
		return "", false, fmt.Errorf("decode content %s: %w", id, err)
	}
	return c.Text, true, nil
}

func (r *Remote) Create(ctx context.Context, name, content string) (string, error) {
	id := newDocumentID()
	now := r.now()
	m := remoteMeta{Name: name, ContentHash: ContentHashHex([]byte(content)), CreatedAt: now, UpdatedAt: now}
	if err := r.put(ctx, docKey(id, "content"), remoteContent{Text: content}); err != nil {
		return "", err
	}
	if err := r.put(ctx, docKey(id, "meta"), m); err != nil {
		return "", err
	}
	if err := r.put(ctx, byHashKey+"/"+m.ContentHash+"/"+id, map[string]string{"id": id}); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Remote) Update(ctx context.Context, id, content string) error {
	m, err := r.meta(ctx, id)
	if err != nil {
		return err
	}
	hash := ContentHashHex([]byte(content))
	if err := r.put(ctx, docKey(id, "content"), remoteContent{Text: content}); err != nil {
		return err
	}
	if hash != m.ContentHash {
		if m.ContentHash != "" {
			if err := r.client.DeleteNode(ctx, byHashKey+"/"+m.ContentHash+"/"+id, false); err != nil {
				return wrapRemote(err)
			}
		}
		if err := r.put(ctx, byHashKey+"/"+hash+"/"+id, map[string]string{"id": id}); err != nil {
			return err
		}
	}
	m.ContentHash = hash
	m.UpdatedAt = r.now()
	return r.put(ctx, docKey(id, "meta"), m)
}

func (r *Remote) Rename(ctx context.Context, id, name string) error {
	m, err := r.meta(ctx, id)
	if err != nil {
		return err
	}
	m.Name = name
	m.UpdatedAt = r.now()
	return r.put(ctx, docKey(id, "meta"), m)
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	m, err := r.meta(ctx, id)
	if err != nil {
		return err
	}
	if err := r.client.DeleteNode(ctx, documentsKey+"/"+id, true); err != nil {
		return wrapRemote(err)
	}
	if m.ContentHash != "" {
		if err := r.client.DeleteNode(ctx, byHashKey+"/"+m.ContentHash+"/"+id, false); err != nil {
			return wrapRemote(err)
		}
	}
	return nil
}

func (r *Remote) ViewState(ctx context.Context, id string) (*outline.ViewState, error) {
	node, err := r.client.GetNode(ctx, docKey(id, "viewstate"))
	if err != nil {
		return nil, wrapRemote(err)
	}
	if node == nil {
		if _, err := r.meta(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}
	var vs outline.ViewState
	if err := json.Unmarshal(node.Value, &vs); err != nil {
		return nil, nil
	}
	return &vs, nil
}

func (r *Remote) SaveViewState(ctx context.Context, id string, vs outline.ViewState) error {
	if _, err := r.meta(ctx, id); err != nil {
		return err
	}
	return r.put(ctx, docKey(id, "viewstate"), vs)
}

func (r *Remote) FindByHash(ctx context.Context, hash string) (string, bool, error) {
	nodes, err := r.client.ListChildren(ctx, byHashKey+"/"+hash, 1)
	if err != nil {
		return "", false, wrapRemote(err)
	}
	for _, n := range nodes {
		segs := keySegments(n.Key)
		if len(segs) > 0 {
			return segs[len(segs)-1], true, nil
		}
	}
	return "", false, nil
}

func (r *Remote) meta(ctx context.Context, id string) (remoteMeta, error) {
	node, err := r.client.GetNode(ctx, docKey(id, "meta"))
	if err != nil {
		return remoteMeta{}, wrapRemote(err)
	}
	if node == nil {
		return remoteMeta{}, ErrNotFound
	}
	var m remoteMeta
	if err := json.Unmarshal(node.Value, &m); err != nil {
		return remoteMeta{}, fmt.Errorf("decode meta %s: %w", id, err)
	}
	return m, nil
}

func (r *Remote) put(ctx context.Context, key string, value any) error {
	if err := r.client.PutNode(ctx, key, pathstore.NodeRequest{Value: value, Source: "marktree"}); err != nil {
		return wrapRemote(err)
	}
	return nil
}

// wrapRemote marks rate limiting and server errors as retryable.
func wrapRemote(err error) error {
	var se *pathstore.StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500) {
		return &RetryableError{StatusCode: se.StatusCode, Message: se.Error()}
	}
	return err
}

// keySegments splits a key path on either separator the service may return.
func keySegments(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool { return r == '/' || r == '.' })
}
