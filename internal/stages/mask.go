package stages

import (
	"context"
	"log/slog"
	"os"

	"roundel/internal/artifacts"
	"roundel/internal/config"
	"roundel/internal/imaging"
	"roundel/internal/logging"
	"roundel/internal/queue"
	"roundel/internal/services"
	"roundel/internal/stage"
)

// Mask crops the job's current artifact to a centered square and applies a
// circular alpha mask, publishing the result as a new artifact.
type Mask struct {
	cfg       *config.Config
	store     *queue.Store
	artifacts *artifacts.Store
	logger    *slog.Logger
}

// NewMask constructs the mask stage handler.
func NewMask(cfg *config.Config, store *queue.Store, artifactStore *artifacts.Store, logger *slog.Logger) *Mask {
	return &Mask{cfg: cfg, store: store, artifacts: artifactStore, logger: logging.NewComponentLogger(logger, "mask")}
}

func (m *Mask) Prepare(ctx context.Context, job *queue.Job) error {
	if job.CurrentLocator == "" {
		return services.Wrap(services.ErrNotFound, "masking", "validate inputs", "no current artifact to mask", nil)
	}
	job.SetProgress("Masking", "Applying circular mask", 0)
	job.ErrorMessage = ""
	return nil
}

func (m *Mask) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, m.logger)
	logger.Info("starting mask", logging.String(logging.FieldLocator, job.CurrentLocator.String()))

	img, err := m.artifacts.ReadImage(job.CurrentLocator)
	if err != nil {
		return services.Wrap(nil, "masking", "load input", "", err)
	}
	job.SetProgress("Masking", "Cropping and masking", 25)

	masked, err := imaging.CircleMask(img)
	if err != nil {
		return services.Wrap(services.ErrInvalidParameter, "masking", "apply mask", "", err)
	}
	job.SetProgress("Masking", "Encoding result", 75)

	encoded, err := imaging.EncodePNG(masked)
	if err != nil {
		return services.Wrap(services.ErrProcessing, "masking", "encode result", "", err)
	}
	locator, err := m.artifacts.Write(job.Name, "mask", ".png", encoded)
	if err != nil {
		return services.Wrap(nil, "masking", "store result", "", err)
	}

	job.CurrentLocator = locator
	job.SetProgress("Masking", "Mask complete", 100)
	logger.Info(
		"mask complete",
		logging.String(logging.FieldLocator, locator.String()),
		logging.Int("side", masked.Bounds().Dx()),
	)
	return nil
}

func (m *Mask) HealthCheck(ctx context.Context) stage.Health {
	const name = "mask"
	if _, err := os.Stat(m.artifacts.Root()); err != nil && !os.IsNotExist(err) {
		return stage.Unhealthy(name, "artifact root inaccessible: "+err.Error())
	}
	return stage.Healthy(name)
}
