package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"roundel/internal/config"
	"roundel/internal/daemon"
	"roundel/internal/logging"
	"roundel/internal/queue"
	"roundel/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	return logger, nil
}

// withDaemon assembles the full service stack, runs fn, and tears down.
func (c *commandContext) withDaemon(fn func(*daemon.Daemon) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.newLogger()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue: %w", err)
	}
	manager := workflow.NewManager(cfg, store, logger)
	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer func() { _ = d.Close() }()
	return fn(d)
}

// withStore opens only the queue store for commands that never run stages.
func (c *commandContext) withStore(fn func(*config.Config, *queue.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(cfg, store)
}
