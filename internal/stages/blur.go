package stages

import (
	"context"
	"fmt"
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

// Blur applies a Gaussian blur to the job's current artifact and publishes
// the result as a new artifact.
type Blur struct {
	cfg       *config.Config
	store     *queue.Store
	artifacts *artifacts.Store
	logger    *slog.Logger
}

// NewBlur constructs the blur stage handler.
func NewBlur(cfg *config.Config, store *queue.Store, artifactStore *artifacts.Store, logger *slog.Logger) *Blur {
	return &Blur{cfg: cfg, store: store, artifacts: artifactStore, logger: logging.NewComponentLogger(logger, "blur")}
}

func (b *Blur) Prepare(ctx context.Context, job *queue.Job) error {
	radius := job.BlurRadius
	if radius < 1 || radius > imaging.MaxRadius {
		return services.Wrap(
			services.ErrInvalidParameter,
			"blurring",
			"validate radius",
			fmt.Sprintf("blur radius %d outside 1..%d", radius, imaging.MaxRadius),
			nil,
		)
	}
	if job.CurrentLocator == "" {
		return services.Wrap(services.ErrNotFound, "blurring", "validate inputs", "no current artifact to blur", nil)
	}
	job.SetProgress("Blurring", fmt.Sprintf("Applying Gaussian blur radius %d", radius), 0)
	job.ErrorMessage = ""
	return nil
}

func (b *Blur) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, b.logger)
	logger.Info(
		"starting blur",
		logging.String(logging.FieldLocator, job.CurrentLocator.String()),
		logging.Int("radius", job.BlurRadius),
	)

	img, err := b.artifacts.ReadImage(job.CurrentLocator)
	if err != nil {
		return services.Wrap(nil, "blurring", "load input", "", err)
	}
	job.SetProgress("Blurring", "Convolving image", 25)

	blurred, err := imaging.GaussianBlur(img, job.BlurRadius)
	if err != nil {
		return services.Wrap(services.ErrInvalidParameter, "blurring", "apply blur", "", err)
	}
	job.SetProgress("Blurring", "Encoding result", 75)

	encoded, err := imaging.EncodePNG(blurred)
	if err != nil {
		return services.Wrap(services.ErrProcessing, "blurring", "encode result", "", err)
	}
	locator, err := b.artifacts.Write(job.Name, "blur", ".png", encoded)
	if err != nil {
		return services.Wrap(nil, "blurring", "store result", "", err)
	}

	job.CurrentLocator = locator
	job.SetProgress("Blurring", "Blur complete", 100)
	logger.Info("blur complete", logging.String(logging.FieldLocator, locator.String()))
	return nil
}

func (b *Blur) HealthCheck(ctx context.Context) stage.Health {
	const name = "blur"
	if _, err := os.Stat(b.artifacts.Root()); err != nil && !os.IsNotExist(err) {
		return stage.Unhealthy(name, "artifact root inaccessible: "+err.Error())
	}
	return stage.Healthy(name)
}
