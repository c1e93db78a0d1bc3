package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"chordserve/internal/config"
)

// TestAPIKey is the key test configurations accept by default.
const TestAPIKey = "test-api-key-0123456789"

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
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Auth.APIKeys = []string{TestAPIKey}
	cfgVal.Convert.WorkDir = filepath.Join(base, "work")
	cfgVal.Logging.LogDir = filepath.Join(base, "logs")
	for _, dir := range []string{cfgVal.Convert.WorkDir, cfgVal.Logging.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

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

// WithAPIKeys replaces the accepted key set on the test config.
func WithAPIKeys(keys ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.APIKeys = keys
	}
}

// WithOpenMode disables authentication on the test config.
func WithOpenMode() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.APIKeys = nil
		b.cfg.Auth.OpenMode = true
	}
}

// WithTimeoutSeconds overrides the engine timeout on the test config.
func WithTimeoutSeconds(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Convert.TimeoutSeconds = seconds
	}
}

// WithStubbedEngine writes a stub engine executable running the provided
// shell body and points the config at it. An empty body produces an engine
// that copies its input to the requested output path.
func WithStubbedEngine(body string) ConfigOption {
	return func(b *configBuilder) {
		if body == "" {
			body = `out=""
prev=""
for arg in "$@"; do
	if [ "$prev" = "-o" ]; then out="$arg"; fi
	prev="$arg"
done
cat "$1" > "$out"`
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "chordpro")
		script := []byte("#!/bin/sh\n" + body + "\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write stub engine: %v", err)
		}
		b.cfg.Convert.Engine = target
	}
}
