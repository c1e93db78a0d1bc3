package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chordserve/internal/config"
	"chordserve/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CHORDSERVE_API_KEYS", "")
	t.Setenv("CHORDSERVE_OPEN_MODE", "")

	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedEngine("")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(homeDir, ".config", "chordserve", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[server]\nbind = %q\n\n", cfg.Server.Bind)
	fmt.Fprintf(&b, "[auth]\napi_keys = [")
	for i, key := range cfg.Auth.APIKeys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", key)
	}
	fmt.Fprintf(&b, "]\nopen_mode = %t\n\n", cfg.Auth.OpenMode)
	fmt.Fprintf(&b, "[convert]\nengine = %q\nwork_dir = %q\nmax_content_bytes = %d\ntimeout_seconds = %d\ntimeout_status = %d\n\n",
		cfg.Convert.Engine,
		cfg.Convert.WorkDir,
		cfg.Convert.MaxContentBytes,
		cfg.Convert.TimeoutSeconds,
		cfg.Convert.TimeoutStatus,
	)
	fmt.Fprintf(&b, "[logging]\nformat = %q\nlevel = %q\nlog_dir = %q\n",
		"json", "error", cfg.Logging.LogDir)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
