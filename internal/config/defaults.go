package config

const (
	defaultLibraryDir          = "~/.local/share/loom/library"
	defaultLogDir              = "~/.local/share/loom/logs"
	defaultExportDir           = "~/.local/share/loom/export"
	defaultMaxWordLength       = 64
	defaultWorkers             = 4
	defaultRetryAttempts       = 3
	defaultRetryDelayMS        = 100
	defaultLockTimeoutSeconds  = 30
	defaultVerifyMode          = "strict"
	defaultSimilarityThreshold = 0.85
	defaultBoilerplateMinTok   = 8
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			ExportDir:  defaultExportDir,
		},
		Vocabulary: Vocabulary{
			MaxWordLength:    defaultMaxWordLength,
			ReportUnresolved: true,
		},
		Workflow: Workflow{
			Workers:            defaultWorkers,
			RetryAttempts:      defaultRetryAttempts,
			RetryDelayMS:       defaultRetryDelayMS,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
			Verify:             defaultVerifyMode,
		},
		Boilerplate: Boilerplate{
			SimilarityThreshold: defaultSimilarityThreshold,
			MinTokens:           defaultBoilerplateMinTok,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
