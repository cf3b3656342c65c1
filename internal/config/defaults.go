package config

const (
	defaultScratchDir            = "~/.cache/study-aggregator/scratch"
	defaultLogDir                = "~/.local/share/study-aggregator/logs"
	defaultJournalPath           = "~/.local/share/study-aggregator/journal.db"
	defaultMaxDepth              = 5
	defaultCacheSize             = 2000
	defaultCredentialWaitSeconds = 600
	defaultSevenZipTimeout       = 300
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	// MaxDepthCeiling is the hard ceiling on configurable nesting depth.
	MaxDepthCeiling = 10
	// MaxWorkerCeiling caps the file-classification pool regardless of core
	// count to avoid oversubscription on constrained hosts.
	MaxWorkerCeiling = 8
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir:  defaultScratchDir,
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Scan: Scan{
			MaxWorkers:            0,
			MaxDepth:              defaultMaxDepth,
			CacheSize:             defaultCacheSize,
			CredentialWaitSeconds: defaultCredentialWaitSeconds,
		},
		SevenZip: SevenZip{
			TimeoutSeconds: defaultSevenZipTimeout,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
