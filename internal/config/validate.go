package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.MaxWorkers < 0 {
		return fmt.Errorf("scan.max_workers must not be negative, got %d", c.Scan.MaxWorkers)
	}
	if c.Scan.MaxWorkers > MaxWorkerCeiling {
		return fmt.Errorf("scan.max_workers must not exceed %d, got %d", MaxWorkerCeiling, c.Scan.MaxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
