package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/marktree/internal/markdown"
	"github.com/dgallion1/marktree/internal/parser"
	"github.com/dgallion1/marktree/internal/store"
)

// Worker processes a single import job.
type Worker struct {
	store   store.Store
	log     *slog.Logger
	opts    parser.Options
	backoff func(attempt int) time.Duration
}

func NewWorker(s store.Store, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		store:   s,
		log:     log,
		opts:    opts,
		backoff: Backoff,
	}
}

// Process runs the full import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetNodes(doc.Forest.Count())

	content := markdown.Serialize(doc.Forest)
	if strings.TrimSpace(content) == "" {
		log.Warn("no importable content")
		job.AddError("no importable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	hash := store.ContentHashHex([]byte(content))
	job.SetContentHash(hash)

	// Phase 1.5: Dedup check
	if existing, ok, err := w.store.FindByHash(ctx, hash); err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if ok {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.Finish(StatusDupSkipped, existing)
		return
	}

	// Phase 2: Store with retry on transient backend errors.
	job.SetStatus(StatusStoring, "storing")
	name := documentName(job.Name, doc.Title, job.Filename)
	var docID string
	err = withRetry(ctx, w.backoff, func() error {
		job.IncrAttempts()
		var createErr error
		docID, createErr = w.store.Create(ctx, name, content)
		return createErr
	}, func(attempt int, err error) {
		log.Warn("retryable store error", "attempt", attempt, "error", err)
	})
	if err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	log.Info("import complete", "doc_id", docID, "nodes", doc.Forest.Count())
	job.Finish(StatusCompleted, docID)
}

// documentName picks the stored name: explicit name, then parsed title, then
// the upload's base name, always with a .md suffix.
func documentName(name, title, filename string) string {
	switch {
	case strings.TrimSpace(name) != "":
		name = strings.TrimSpace(name)
	case strings.TrimSpace(title) != "":
		name = strings.TrimSpace(title)
	default:
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
		if name == "" || name == "." {
			name = "Imported"
		}
	}
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return name
}
