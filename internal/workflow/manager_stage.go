package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"roundel/internal/logging"
	"roundel/internal/notifications"
	"roundel/internal/queue"
	"roundel/internal/services"
)

func (m *Manager) processJob(ctx context.Context, job *queue.Job) error {
	stg, ok := m.stageByStart[job.Status]
	if !ok {
		m.logger.Warn("no stage configured for status", logging.String("status", string(job.Status)))
		m.sleep(ctx, m.pollInterval)
		return nil
	}

	stageCtx := services.WithRequestID(ctx, uuid.NewString())
	stageCtx = services.WithJobID(stageCtx, job.ID)
	stageCtx = services.WithJobName(stageCtx, job.Name)
	stageCtx = services.WithStage(stageCtx, stg.name)
	stageLogger := logging.WithContext(stageCtx, m.logger)

	if err := m.transitionToProcessing(stageCtx, stg, job); err != nil {
		if errors.Is(err, queue.ErrSuperseded) {
			stageLogger.Debug("run superseded before stage start; abandoning")
			return nil
		}
		stageLogger.Error("failed to transition job to processing", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(stageCtx, stageLogger, stg, job)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, stg pipelineStage, job *queue.Job) error {
	stageStart := time.Now()
	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String(logging.FieldLocator, job.CurrentLocator.String()),
	)

	if err := stg.handler.Prepare(ctx, job); err != nil {
		m.handleStageFailure(ctx, stg.name, job, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, job); err != nil {
		if errors.Is(err, queue.ErrSuperseded) {
			stageLogger.Debug("run superseded during preparation; abandoning")
			return nil
		}
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	if err := stg.handler.Execute(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return err
		}
		m.handleStageFailure(ctx, stg.name, job, err)
		m.setLastError(err)
		return err
	}

	job.Status = stg.doneStatus
	if job.Status == queue.StatusCompleted {
		job.SetProgress("Completed", "Transformation chain complete", 100)
	}
	if err := m.store.Update(ctx, job); err != nil {
		if errors.Is(err, queue.ErrSuperseded) {
			stageLogger.Debug("run superseded after stage; result discarded")
			return nil
		}
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(job.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	m.setLastJob(job)

	if job.Status == queue.StatusCompleted {
		m.publish(ctx, notifications.EventJobCompleted, notifications.Payload{
			"job":     job.Name,
			"locator": job.FinalLocator.String(),
		})
	}
	return nil
}

func (m *Manager) transitionToProcessing(ctx context.Context, stg pipelineStage, job *queue.Job) error {
	starting := job.Status == queue.StatusPending

	job.Status = stg.processingStatus
	job.SetProgress(queue.StageLabel(stg.processingStatus), fmt.Sprintf("%s started", queue.StageLabel(stg.processingStatus)), 0)
	job.ErrorMessage = ""
	if err := m.store.Update(ctx, job); err != nil {
		return err
	}
	m.setLastJob(job)

	if starting {
		m.publish(ctx, notifications.EventJobStarted, notifications.Payload{"job": job.Name})
	}
	m.publish(ctx, notifications.EventStageStarted, notifications.Payload{
		"job":   job.Name,
		"stage": stg.name,
	})
	return nil
}

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, job *queue.Job, stageErr error) {
	logger := logging.WithContext(ctx, m.logger)

	details := services.Details(stageErr)
	message := details.Message
	if message == "" {
		message = fmt.Sprintf("%s failed", stageName)
	}
	job.SetFailed(message)

	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("error_kind", details.Kind),
		logging.Bool("fatal", services.IsFatal(stageErr)),
		logging.Error(stageErr),
	)

	if err := m.store.Update(ctx, job); err != nil {
		switch {
		case errors.Is(err, queue.ErrSuperseded):
			logger.Debug("run superseded during failure handling; abandoning")
			return
		case errors.Is(err, context.Canceled):
			logger.Debug("daemon shutting down, could not persist stage failure")
		default:
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}
	m.setLastJob(job)

	m.publish(ctx, notifications.EventJobFailed, notifications.Payload{
		"job":   job.Name,
		"error": message,
	})
}

func (m *Manager) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Publish(ctx, event, payload); err != nil {
		m.logger.Warn(
			"notification failed",
			logging.String(logging.FieldEventType, string(event)),
			logging.Error(err),
		)
	}
}
