package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"autofix/internal/config"
	"autofix/internal/logging"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configPath, c.configErr = c.loadConfig()
	})
	return c.config, c.configErr
}

// loadConfig reads the configuration from disk every call. build --watch uses
// it to pick up edits to the config file.
func (c *commandContext) loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.Load(c.requestedPath())
	if err != nil {
		return nil, "", err
	}
	if level := flagValue(c.logLevelFlag); level != "" {
		cfg.Logging.Level = level
	}
	if format := flagValue(c.logFormatFlag); format != "" {
		cfg.Logging.Format = strings.ToLower(format)
	}
	return cfg, path, nil
}

func (c *commandContext) requestedPath() string {
	if path := flagValue(c.configFlag); path != "" {
		return path
	}
	return c.configPath
}

// logger builds a logger writing to w using the loaded configuration, or the
// flag overrides alone when no configuration is loaded.
func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  flagValue(c.logLevelFlag),
		Format: flagValue(c.logFormatFlag),
		Writer: w,
	}
	if c.config != nil {
		opts.Level = c.config.Logging.Level
		opts.Format = c.config.Logging.Format
		opts.File = c.config.Logging.File
	}
	return logging.New(opts)
}

func (c *commandContext) commandLogger(cmd *cobra.Command) (*slog.Logger, error) {
	return c.logger(cmd.ErrOrStderr())
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
