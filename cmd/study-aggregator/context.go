package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nathannncurtis/Study-Aggregator/internal/config"
	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// buildLogger writes structured logs to the configured log directory so
// stdout stays clean for the report. When the log file cannot be opened the
// logger falls back to stderr.
func (c *commandContext) buildLogger(cfg *config.Config) (*slog.Logger, func()) {
	var output io.Writer = os.Stderr
	cleanup := func() {}

	if cfg.Paths.LogDir != "" {
		file, err := logging.OpenLogFile(filepath.Join(cfg.Paths.LogDir, "study-aggregator.log"))
		if err == nil {
			output = file
			cleanup = func() { _ = file.Close() }
		}
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: output,
	})
	if err != nil {
		cleanup()
		return logging.NewNop(), func() {}
	}
	return logger, cleanup
}
