package testsupport

import (
	"path/filepath"
	"testing"

	"roundel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArtifactRoot = filepath.Join(base, "artifacts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBlurRadius overrides the default blur radius on the test config.
func WithBlurRadius(radius int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.BlurRadius = radius
	}
}

// WithNtfyTopic sets the ntfy topic URL on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}
