package config

const (
	defaultArtifactRoot       = "~/.local/share/roundel/artifacts"
	defaultLogDir             = "~/.local/share/roundel/logs"
	defaultBlurRadius         = 10
	defaultMinFreeMB          = 64
	defaultNtfyRequestTimeout = 10
	defaultQueuePollInterval  = 2
	defaultErrorRetryInterval = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// MaxBlurRadius is the largest radius the blur primitive accepts.
const MaxBlurRadius = 25

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ArtifactRoot: defaultArtifactRoot,
			LogDir:       defaultLogDir,
		},
		Pipeline: Pipeline{
			BlurRadius: defaultBlurRadius,
			MinFreeMB:  defaultMinFreeMB,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			JobStarted:     true,
			StageUpdates:   true,
			Completion:     true,
			Errors:         true,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
