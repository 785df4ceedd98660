package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/dgallion1/marktree/internal/config"
	"github.com/dgallion1/marktree/internal/store"
)

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap := job.Snapshot(); snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Defaults()
	o := NewOrchestrator(cfg, store.OpenMemory(t), discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	a := NewJob("a.md", "", []byte("# a\none"))
	b := NewJob("b.txt", "", []byte("two\n\nthree"))
	for _, job := range []*Job{a, b} {
		if err := o.Submit(job); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	for _, job := range []*Job{a, b} {
		if snap := waitDone(t, job); snap.Status != StatusCompleted {
			t.Errorf("%s: expected completed, got %s (%v)", job.Filename, snap.Status, snap.Progress.Errors)
		}
		if o.GetJob(job.ID) != job {
			t.Errorf("expected job %s to be registered", job.ID)
		}
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaxQueueSize = 1
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, store.OpenMemory(t), discardLogger())

	if err := o.Submit(NewJob("a.md", "", nil)); err != nil {
		t.Fatalf("expected first submit to succeed, got %v", err)
	}
	second := NewJob("b.md", "", nil)
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected failed/queue_full, got %s/%s", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	o := NewOrchestrator(config.Defaults(), store.OpenMemory(t), discardLogger())
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	if err := o.Submit(NewJob("a.md", "", nil)); err == nil {
		t.Error("expected error submitting to a stopped pipeline")
	}
}
