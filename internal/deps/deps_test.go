package deps_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chordserve/internal/deps"
)

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{deps.Engine("definitely-not-installed-xyz")})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if !strings.Contains(statuses[0].Detail, "not found") {
		t.Fatalf("unexpected detail: %q", statuses[0].Detail)
	}
}

func TestCheckBinariesAcceptsAbsolutePath(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "chordpro", "#!/bin/sh\nexit 0\n")
	statuses := deps.CheckBinaries([]deps.Requirement{deps.Engine(stub)})
	if !statuses[0].Available {
		t.Fatalf("expected stub to be available: %+v", statuses[0])
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "engine"}})
	if statuses[0].Available || statuses[0].Detail != "command not configured" {
		t.Fatalf("unexpected status: %+v", statuses[0])
	}
}

func TestProbeVersionReturnsFirstLine(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "chordpro",
		"#!/bin/sh\necho 'ChordPro version 6.070'\necho 'extra line'\n")
	version, err := deps.ProbeVersion(context.Background(), stub)
	if err != nil {
		t.Fatalf("ProbeVersion: %v", err)
	}
	if version != "ChordPro version 6.070" {
		t.Fatalf("unexpected version: %q", version)
	}
}

func TestProbeVersionFailure(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "chordpro", "#!/bin/sh\nexit 3\n")
	if _, err := deps.ProbeVersion(context.Background(), stub); err == nil {
		t.Fatal("expected error from failing probe")
	}
}
