package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains HTTP listener configuration.
type Server struct {
	Bind            string `toml:"bind"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
}

// Auth contains API key configuration for the conversion endpoints.
type Auth struct {
	// APIKeys holds the accepted keys. The CHORDSERVE_API_KEYS environment
	// variable (comma-separated) is appended during normalization.
	APIKeys []string `toml:"api_keys"`
	// OpenMode explicitly allows serving without any configured key. Without
	// it, an empty key set fails validation at startup.
	OpenMode bool `toml:"open_mode"`
}

// Convert contains conversion pipeline configuration.
type Convert struct {
	Engine          string `toml:"engine"`
	WorkDir         string `toml:"work_dir"`
	MaxContentBytes int64  `toml:"max_content_bytes"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	// TimeoutStatus is the HTTP status reported when the engine exceeds the
	// per-request timeout. Either 504 or 500.
	TimeoutStatus int `toml:"timeout_status"`
	// Presets maps a client-facing preset name to the engine configuration
	// reference passed on the command line. Entries extend (or override) the
	// built-in ChordPro configuration names.
	Presets map[string]string `toml:"presets"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	LogDir string `toml:"log_dir"`
}

// Config encapsulates all configuration values for chordserve.
//
// Sections by subsystem:
//   - Server: listener bind address and shutdown grace period
//   - Auth: accepted API keys and the explicit open-mode escape hatch
//   - Convert: engine binary, temp work directory, size/time limits, presets
//   - Logging: log format, level, and optional log directory
type Config struct {
	Server  Server  `toml:"server"`
	Auth    Auth    `toml:"auth"`
	Convert Convert `toml:"convert"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chordserve/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. When no file exists at
// the resolved location the defaults are used; exists reports whether a file
// was read.
func Load(path string) (cfg *Config, resolvedPath string, exists bool, err error) {
	loaded := Default()

	resolvedPath, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&loaded); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := loaded.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := loaded.Validate(); err != nil {
		return nil, "", false, err
	}

	return &loaded, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("chordserve.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the service writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Convert.WorkDir}
	if strings.TrimSpace(c.Logging.LogDir) != "" {
		dirs = append(dirs, c.Logging.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
