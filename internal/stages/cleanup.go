package stages

import (
	"context"
	"log/slog"
	"os"

	"roundel/internal/artifacts"
	"roundel/internal/config"
	"roundel/internal/logging"
	"roundel/internal/queue"
	"roundel/internal/stage"
)

// Cleanup empties a job's artifact namespace before a fresh run. Removal
// failures are logged and swallowed: stale artifacts never block a run, they
// only waste space.
type Cleanup struct {
	cfg       *config.Config
	store     *queue.Store
	artifacts *artifacts.Store
	logger    *slog.Logger
}

// NewCleanup constructs the cleanup stage handler.
func NewCleanup(cfg *config.Config, store *queue.Store, artifactStore *artifacts.Store, logger *slog.Logger) *Cleanup {
	return &Cleanup{cfg: cfg, store: store, artifacts: artifactStore, logger: logging.NewComponentLogger(logger, "cleanup")}
}

func (c *Cleanup) Prepare(ctx context.Context, job *queue.Job) error {
	job.SetProgress("Cleaning", "Removing stale artifacts", 0)
	job.ErrorMessage = ""
	return nil
}

func (c *Cleanup) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, c.logger)

	stale, err := c.artifacts.List(job.Name)
	if err != nil {
		logger.Warn("could not enumerate stale artifacts", logging.Error(err))
	} else if len(stale) > 0 {
		logger.Info("removing stale artifacts", logging.Int("count", len(stale)))
	}

	if err := c.artifacts.Clear(job.Name); err != nil {
		// Best effort: a namespace we cannot delete must not stop the run.
		logger.Warn("artifact cleanup failed", logging.Error(err))
	}

	// A fresh run always starts from the external source.
	job.CurrentLocator = job.SourceLocator
	job.FinalLocator = ""
	job.SetProgress("Cleaning", "Workspace ready", 100)
	logger.Info("workspace cleaned", logging.String(logging.FieldLocator, job.SourceLocator.String()))
	return nil
}

func (c *Cleanup) HealthCheck(ctx context.Context) stage.Health {
	const name = "cleanup"
	if _, err := os.Stat(c.artifacts.Root()); err != nil && !os.IsNotExist(err) {
		return stage.Unhealthy(name, "artifact root inaccessible: "+err.Error())
	}
	return stage.Healthy(name)
}
