package config

const (
	defaultOutputDir      = "~/.local/share/loom/manifests"
	defaultLogDir         = "~/.local/share/loom/logs"
	defaultCacheDir       = "~/.cache/loom"
	defaultProbeCachePath = "~/.cache/loom/probes.db"
	defaultJobs           = 1
	defaultMaxPause       = 0.0
	defaultUnknownToken   = "<unk>"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			CacheDir:  defaultCacheDir,
		},
		Prepare: Prepare{
			Jobs:     defaultJobs,
			MaxPause: defaultMaxPause,
			UEM:      false,
			Compress: false,
		},
		Normalize: Normalize{
			Lowercase:              true,
			UnknownToken:           defaultUnknownToken,
			FillerTokens:           []string{"mm", "hmm", "mhm", "uh", "um"},
			ExcludeSpeakerPrefixes: []string{"background"},
		},
		ProbeCache: ProbeCache{
			Enabled: true,
			Path:    defaultProbeCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
