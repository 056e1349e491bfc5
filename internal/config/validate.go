package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ArtifactRoot) == "" {
		return errors.New("paths.artifact_root must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.BlurRadius <= 0 || c.Pipeline.BlurRadius > MaxBlurRadius {
		return fmt.Errorf("pipeline.blur_radius must be between 1 and %d", MaxBlurRadius)
	}
	if c.Pipeline.MinFreeMB < 0 {
		return errors.New("pipeline.min_free_mb must not be negative")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return errors.New("workflow.error_retry_interval must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	topic := strings.TrimSpace(c.Notifications.NtfyTopic)
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return errors.New("notifications.ntfy_topic must be a full http(s) URL")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
