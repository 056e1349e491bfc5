package workflow

import (
	"context"

	"roundel/internal/logging"
	"roundel/internal/queue"
	"roundel/internal/stage"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running     bool
	LastError   string
	LastJob     *queue.Job
	QueueStats  map[queue.Status]int
	StageHealth map[string]stage.Health
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	running := m.running
	lastErr := m.lastErr
	lastJob := m.lastJob
	stageSet := make([]pipelineStage, len(m.stages))
	copy(stageSet, m.stages)
	m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Warn("failed to read queue stats", logging.Error(err))
	}

	health := make(map[string]stage.Health, len(stageSet))
	for _, stg := range stageSet {
		if stg.handler == nil {
			continue
		}
		health[stg.name] = stg.handler.HealthCheck(ctx)
	}

	summary := StatusSummary{Running: running, QueueStats: stats, StageHealth: health}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastJob != nil {
		cp := *lastJob
		summary.LastJob = &cp
	}
	return summary
}
