package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"roundel/internal/artifacts"
	"roundel/internal/config"
	"roundel/internal/logging"
	"roundel/internal/notifications"
	"roundel/internal/queue"
	"roundel/internal/stage"
	"roundel/internal/stages"
)

// pipelineStage binds a handler to the status transitions it owns.
type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing across the transformation chain.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	notifier     notifications.Service
	pollInterval time.Duration

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	statusOrder  []queue.Status

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastJob *queue.Job
}

// NewManager constructs a workflow manager with the default stage handlers.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	artifactStore := artifacts.NewStore(cfg.Paths.ArtifactRoot)
	m := &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow-manager"),
		notifier:     notifier,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
	}
	m.stages = []pipelineStage{
		{
			name:             "cleanup",
			handler:          stages.NewCleanup(cfg, store, artifactStore, logger),
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusCleaning,
			doneStatus:       queue.StatusCleaned,
		},
		{
			name:             "blur",
			handler:          stages.NewBlur(cfg, store, artifactStore, logger),
			startStatus:      queue.StatusCleaned,
			processingStatus: queue.StatusBlurring,
			doneStatus:       queue.StatusBlurred,
		},
		{
			name:             "mask",
			handler:          stages.NewMask(cfg, store, artifactStore, logger),
			startStatus:      queue.StatusBlurred,
			processingStatus: queue.StatusMasking,
			doneStatus:       queue.StatusMasked,
		},
		{
			name:             "save",
			handler:          stages.NewSave(cfg, store, artifactStore, logger),
			startStatus:      queue.StatusMasked,
			processingStatus: queue.StatusSaving,
			doneStatus:       queue.StatusCompleted,
		},
	}
	m.stageByStart = make(map[queue.Status]pipelineStage, len(m.stages))
	m.statusOrder = make([]queue.Status, 0, len(m.stages))
	for _, stg := range m.stages {
		m.stageByStart[stg.startStatus] = stg
		m.statusOrder = append(m.statusOrder, stg.startStatus)
	}
	return m
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := m.store.NextForStatuses(ctx, m.statusOrder...)
		if err != nil {
			m.setLastError(err)
			m.logger.Error("failed to fetch next queue job", logging.Error(err))
			if !m.sleep(ctx, time.Duration(m.cfg.Workflow.ErrorRetryInterval)*time.Second) {
				return
			}
			continue
		}
		if job == nil {
			if !m.sleep(ctx, m.pollInterval) {
				return
			}
			continue
		}

		if err := m.processJob(ctx, job); err != nil && errors.Is(err, context.Canceled) {
			return
		}
	}
}

// RunOnce synchronously drains every actionable job and returns when the
// queue holds no more work. Used by the one-shot CLI processing command.
func (m *Manager) RunOnce(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := m.store.NextForStatuses(ctx, m.statusOrder...)
		if err != nil {
			return err
		}
		if job == nil {
			return nil
		}
		if err := m.processJob(ctx, job); err != nil && errors.Is(err, context.Canceled) {
			return err
		}
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastJob(job *queue.Job) {
	m.mu.Lock()
	if job != nil {
		cp := *job
		m.lastJob = &cp
	} else {
		m.lastJob = nil
	}
	m.mu.Unlock()
}
