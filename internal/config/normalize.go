package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeProbeCache(); err != nil {
		return err
	}
	c.normalizeNormalize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProbeCache() error {
	if strings.TrimSpace(c.ProbeCache.Path) == "" {
		c.ProbeCache.Path = defaultProbeCachePath
	}
	expanded, err := expandPath(c.ProbeCache.Path)
	if err != nil {
		return fmt.Errorf("probe_cache.path: %w", err)
	}
	c.ProbeCache.Path = expanded
	return nil
}

func (c *Config) normalizeNormalize() {
	c.Normalize.UnknownToken = strings.TrimSpace(c.Normalize.UnknownToken)
	trimmed := make([]string, 0, len(c.Normalize.FillerTokens))
	for _, token := range c.Normalize.FillerTokens {
		if t := strings.TrimSpace(token); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	c.Normalize.FillerTokens = trimmed

	prefixes := make([]string, 0, len(c.Normalize.ExcludeSpeakerPrefixes))
	for _, prefix := range c.Normalize.ExcludeSpeakerPrefixes {
		if p := strings.TrimSpace(prefix); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	c.Normalize.ExcludeSpeakerPrefixes = prefixes
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
