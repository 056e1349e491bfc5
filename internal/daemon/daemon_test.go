package daemon_test

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"roundel/internal/daemon"
	"roundel/internal/logging"
	"roundel/internal/queue"
	"roundel/internal/testsupport"
	"roundel/internal/workflow"
)

func newDaemon(t *testing.T) (*daemon.Daemon, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, logging.NewNop())
	d, err := daemon.New(cfg, store, logging.NewNop(), manager)
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	return d, store
}

func TestStartStopLifecycle(t *testing.T) {
	d, _ := newDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected running daemon")
	}
	if status.LockFilePath == "" || status.QueueDBPath == "" {
		t.Fatalf("incomplete status %+v", status)
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped daemon")
	}
	// Stop is idempotent.
	d.Stop()
}

func TestStartRecoversStrandedJobs(t *testing.T) {
	d, store := newDaemon(t)
	ctx := context.Background()

	source := testsupport.WritePNG(t, filepath.Join(t.TempDir(), "in.png"), 16, 16, color.NRGBA{R: 40, A: 255})
	job, err := d.AddJob(ctx, "stranded", source, 5)
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	job.Status = queue.StatusMasking
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	// The stranded job is reset to pending and reprocessed to completion.
	deadline := time.Now().Add(15 * time.Second)
	for {
		current, err := store.GetByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if current.Status == queue.StatusCompleted {
			break
		}
		if current.Status == queue.StatusFailed {
			t.Fatalf("job failed: %s", current.ErrorMessage)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in %s", current.Status)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestAddJobDefaultsNameAndRadius(t *testing.T) {
	d, _ := newDaemon(t)
	ctx := context.Background()

	source := testsupport.WritePNG(t, filepath.Join(t.TempDir(), "portrait.png"), 8, 8, color.NRGBA{G: 80, A: 255})
	job, err := d.AddJob(ctx, "", source, 0)
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if job.Name != "portrait" {
		t.Fatalf("expected name derived from file, got %q", job.Name)
	}
	if job.BlurRadius != 10 {
		t.Fatalf("expected config default radius, got %d", job.BlurRadius)
	}
}

func TestQueueFacade(t *testing.T) {
	d, store := newDaemon(t)
	ctx := context.Background()

	source := testsupport.WritePNG(t, filepath.Join(t.TempDir(), "in.png"), 8, 8, color.NRGBA{B: 80, A: 255})
	job, err := d.AddJob(ctx, "facade", source, 5)
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	jobs, err := d.ListQueue(ctx, nil)
	if err != nil {
		t.Fatalf("ListQueue failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	job.SetFailed("boom")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	retried, err := d.RetryFailed(ctx, nil)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if retried != 1 {
		t.Fatalf("expected 1 retried, got %d", retried)
	}

	health, err := d.QueueHealth(ctx)
	if err != nil {
		t.Fatalf("QueueHealth failed: %v", err)
	}
	if health.Total != 1 || health.Pending != 1 {
		t.Fatalf("unexpected health %+v", health)
	}

	removed, err := d.RemoveJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("RemoveJob failed: %v", err)
	}
	if !removed {
		t.Fatal("expected job removed")
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	d, _ := newDaemon(t)
	sent, detail, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if sent {
		t.Fatal("expected no notification without topic")
	}
	if detail == "" {
		t.Fatal("expected detail message")
	}
}
