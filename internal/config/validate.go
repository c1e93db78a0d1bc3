package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if len(c.Auth.APIKeys) == 0 && !c.Auth.OpenMode {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/chordserve/config.toml"
		}
		return fmt.Errorf("no API keys configured: set auth.api_keys in %s (or CHORDSERVE_API_KEYS), or set auth.open_mode = true to explicitly serve without authentication", defaultPath)
	}
	return nil
}

func (c *Config) validateConvert() error {
	if strings.TrimSpace(c.Convert.Engine) == "" {
		return errors.New("convert.engine must be set")
	}
	if strings.TrimSpace(c.Convert.WorkDir) == "" {
		return errors.New("convert.work_dir must be set")
	}
	if c.Convert.MaxContentBytes <= 0 {
		return errors.New("convert.max_content_bytes must be positive")
	}
	if c.Convert.TimeoutSeconds <= 0 {
		return errors.New("convert.timeout_seconds must be positive")
	}
	if c.Convert.TimeoutStatus != 504 && c.Convert.TimeoutStatus != 500 {
		return errors.New("convert.timeout_status must be 504 or 500")
	}
	for name, ref := range c.Convert.Presets {
		if strings.TrimSpace(ref) == "" {
			return fmt.Errorf("convert.presets.%s must reference an engine configuration", name)
		}
	}
	return nil
}
