package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"roundel/internal/artifacts"
	"roundel/internal/config"
	"roundel/internal/identify"
	"roundel/internal/logging"
	"roundel/internal/notifications"
	"roundel/internal/preflight"
	"roundel/internal/queue"
	"roundel/internal/workflow"
)

// Daemon coordinates background processing and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Workflow     workflow.StatusSummary
	QueueDBPath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, logger, and workflow manager")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "roundeld.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		workflow: wf,
		logPath:  filepath.Join(cfg.Paths.LogDir, "roundel.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start verifies the environment, acquires the daemon lock, recovers jobs
// stranded in processing states, and launches the workflow manager.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("provision directories: %w", err)
	}
	checks := preflight.RunAll(ctx, d.cfg)
	if !preflight.Passed(checks) {
		return fmt.Errorf("preflight failed: %s", preflight.Summarize(checks))
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another roundel daemon instance is already running")
	}

	reset, err := d.store.ResetStuckProcessing(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("reset stuck jobs: %w", err)
	}
	if reset > 0 {
		d.logger.Info("recovered jobs stranded in processing", logging.Int64("count", reset))
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.workflow.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start workflow: %w", err)
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("roundel daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("roundel daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// AddJob validates a source image path and enqueues a job for it. An
// existing job with the same name is replaced by the new run.
func (d *Daemon) AddJob(ctx context.Context, name, sourcePath string, blurRadius int) (*queue.Job, error) {
	if d.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	locator, err := artifacts.ExternalLocator(sourcePath)
	if err != nil {
		return nil, err
	}
	if blurRadius == 0 {
		blurRadius = d.cfg.Pipeline.BlurRadius
	}
	if name = strings.TrimSpace(name); name == "" {
		name = identify.DeriveName(sourcePath)
	}
	job, err := d.store.NewJob(ctx, name, locator, blurRadius)
	if err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}
	d.logger.Info(
		"job queued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldJobName, job.Name),
		logging.String(logging.FieldLocator, locator.String()),
	)
	return job, nil
}

// ListQueue returns queue jobs filtered by optional statuses.
func (d *Daemon) ListQueue(ctx context.Context, statuses []queue.Status) ([]*queue.Job, error) {
	if d.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	return d.store.List(ctx, statuses...)
}

// ClearQueue removes all queue jobs.
func (d *Daemon) ClearQueue(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.Clear(ctx)
}

// ClearCompleted removes only completed queue jobs.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ClearCompleted(ctx)
}

// ClearFailed removes only failed queue jobs.
func (d *Daemon) ClearFailed(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ClearFailed(ctx)
}

// ResetStuck transitions in-flight jobs back to pending for retry.
func (d *Daemon) ResetStuck(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ResetStuckProcessing(ctx)
}

// RetryFailed resets failed jobs (optionally a subset) back to pending.
func (d *Daemon) RetryFailed(ctx context.Context, ids []int64) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.RetryFailed(ctx, ids...)
}

// RemoveJob deletes a queue job by identifier.
func (d *Daemon) RemoveJob(ctx context.Context, id int64) (bool, error) {
	if d.store == nil {
		return false, errors.New("queue store unavailable")
	}
	return d.store.Remove(ctx, id)
}

// QueueHealth returns aggregate queue diagnostics.
func (d *Daemon) QueueHealth(ctx context.Context) (queue.HealthSummary, error) {
	if d.store == nil {
		return queue.HealthSummary{}, errors.New("queue store unavailable")
	}
	return d.store.Health(ctx)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.Publish(ctx, notifications.EventTest, nil); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		Workflow:     d.workflow.Status(ctx),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
	}
}
