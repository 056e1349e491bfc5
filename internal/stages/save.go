package stages

import (
	"context"
	"log/slog"
	"os"

	"roundel/internal/artifacts"
	"roundel/internal/config"
	"roundel/internal/logging"
	"roundel/internal/queue"
	"roundel/internal/services"
	"roundel/internal/stage"
)

// Save copies the job's current artifact bytes into the final artifact slot.
// The bytes are already encoded by the preceding stage; save never decodes.
type Save struct {
	cfg       *config.Config
	store     *queue.Store
	artifacts *artifacts.Store
	logger    *slog.Logger
}

// NewSave constructs the save stage handler.
func NewSave(cfg *config.Config, store *queue.Store, artifactStore *artifacts.Store, logger *slog.Logger) *Save {
	return &Save{cfg: cfg, store: store, artifacts: artifactStore, logger: logging.NewComponentLogger(logger, "save")}
}

func (s *Save) Prepare(ctx context.Context, job *queue.Job) error {
	if job.CurrentLocator == "" {
		return services.Wrap(services.ErrNotFound, "saving", "validate inputs", "no artifact to save", nil)
	}
	job.SetProgress("Saving", "Publishing final artifact", 0)
	job.ErrorMessage = ""
	return nil
}

func (s *Save) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("starting save", logging.String(logging.FieldLocator, job.CurrentLocator.String()))

	data, err := s.artifacts.Read(job.CurrentLocator)
	if err != nil {
		return services.Wrap(nil, "saving", "load artifact", "", err)
	}
	job.SetProgress("Saving", "Writing final artifact", 50)

	locator, err := s.artifacts.Write(job.Name, "final", ".png", data)
	if err != nil {
		return services.Wrap(nil, "saving", "store final artifact", "", err)
	}

	job.FinalLocator = locator
	job.CurrentLocator = locator
	job.SetProgress("Saving", "Final artifact published", 100)
	logger.Info(
		"save complete",
		logging.String(logging.FieldLocator, locator.String()),
		logging.Int("bytes", len(data)),
	)
	return nil
}

func (s *Save) HealthCheck(ctx context.Context) stage.Health {
	const name = "save"
	if _, err := os.Stat(s.artifacts.Root()); err != nil && !os.IsNotExist(err) {
		return stage.Unhealthy(name, "artifact root inaccessible: "+err.Error())
	}
	return stage.Healthy(name)
}
