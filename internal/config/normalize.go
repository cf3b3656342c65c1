package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeSevenZip()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.MaxDepth <= 0 {
		c.Scan.MaxDepth = defaultMaxDepth
	}
	if c.Scan.MaxDepth > MaxDepthCeiling {
		c.Scan.MaxDepth = MaxDepthCeiling
	}
	if c.Scan.CacheSize <= 0 {
		c.Scan.CacheSize = defaultCacheSize
	}
	if c.Scan.CredentialWaitSeconds <= 0 {
		c.Scan.CredentialWaitSeconds = defaultCredentialWaitSeconds
	}
}

func (c *Config) normalizeSevenZip() {
	c.SevenZip.Binary = strings.TrimSpace(c.SevenZip.Binary)
	if c.SevenZip.TimeoutSeconds <= 0 {
		c.SevenZip.TimeoutSeconds = defaultSevenZipTimeout
	}
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
