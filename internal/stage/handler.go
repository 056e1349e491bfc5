package stage

import (
	"context"

	"roundel/internal/queue"
)

// Handler describes the contract the workflow coordinator needs from each stage.
type Handler interface {
	Prepare(context.Context, *queue.Job) error
	Execute(context.Context, *queue.Job) error
	HealthCheck(context.Context) Health
}
