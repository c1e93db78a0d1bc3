package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeServer()
	c.normalizeAuth()
	if err := c.normalizeConvert(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}

func (c *Config) normalizeAuth() {
	keys := make([]string, 0, len(c.Auth.APIKeys))
	seen := make(map[string]struct{}, len(c.Auth.APIKeys))

	appendKey := func(key string) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for _, key := range c.Auth.APIKeys {
		appendKey(key)
	}
	if value, ok := os.LookupEnv("CHORDSERVE_API_KEYS"); ok {
		for _, key := range strings.Split(value, ",") {
			appendKey(key)
		}
	}
	c.Auth.APIKeys = keys

	if value, ok := os.LookupEnv("CHORDSERVE_OPEN_MODE"); ok {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			c.Auth.OpenMode = true
		}
	}
}

func (c *Config) normalizeConvert() error {
	c.Convert.Engine = strings.TrimSpace(c.Convert.Engine)
	if c.Convert.Engine == "" {
		c.Convert.Engine = defaultEngine
	}

	if strings.TrimSpace(c.Convert.WorkDir) == "" {
		c.Convert.WorkDir = defaultWorkDir
	}
	workDir, err := expandPath(c.Convert.WorkDir)
	if err != nil {
		return fmt.Errorf("convert.work_dir: %w", err)
	}
	c.Convert.WorkDir = workDir

	if c.Convert.MaxContentBytes <= 0 {
		c.Convert.MaxContentBytes = defaultMaxContentBytes
	}
	if c.Convert.TimeoutSeconds <= 0 {
		c.Convert.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Convert.TimeoutStatus == 0 {
		c.Convert.TimeoutStatus = defaultTimeoutStatus
	}

	// Operator entries extend or override the built-in preset names.
	presets := builtinPresets()
	for name, ref := range c.Convert.Presets {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		presets[trimmedName] = strings.TrimSpace(ref)
	}
	c.Convert.Presets = presets
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "":
		c.Logging.Format = defaultLogFormat
	case "auto", "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	if strings.TrimSpace(c.Logging.LogDir) != "" {
		logDir, err := expandPath(c.Logging.LogDir)
		if err != nil {
			return fmt.Errorf("logging.log_dir: %w", err)
		}
		c.Logging.LogDir = logDir
	}
	return nil
}
