package testsupport

import (
	"path/filepath"
	"testing"

	"loom/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "manifests")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.ProbeCache.Path = filepath.Join(base, "cache", "probes.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithJobs overrides the probe worker count on the test config.
func WithJobs(jobs int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Prepare.Jobs = jobs
	}
}

// WithProbeCacheDisabled turns off the probe cache on the test config.
func WithProbeCacheDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ProbeCache.Enabled = false
	}
}

// WithCompression enables gzip-compressed manifest output.
func WithCompression() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Prepare.Compress = true
	}
}
