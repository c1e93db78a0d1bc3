//go:build !windows

package convert_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chordserve/internal/convert"
	"chordserve/internal/logging"
)

// writeStubEngine writes an executable shell script standing in for the real
// conversion engine and returns its path.
func writeStubEngine(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chordpro")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	return path
}

// findOutputArg extracts the path following "-o" from "$@" inside a stub.
const outputArgShell = `out=""
prev=""
for arg in "$@"; do
	if [ "$prev" = "-o" ]; then out="$arg"; fi
	prev="$arg"
done`

func assertWorkDirEmpty(t *testing.T, workDir string) {
	t.Helper()
	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("work dir not empty after run: %v", names)
	}
}

func TestRunnerSuccessCleansUp(t *testing.T) {
	engine := writeStubEngine(t, outputArgShell+`
printf '%%PDF-1.7 fake' > "$out"`)
	workDir := t.TempDir()
	runner := convert.NewRunner(engine, workDir, 5*time.Second, logging.NewNop())

	req := mustParse(t, `{"content":"{title: Amazing Grace}\n[C]Amazing grace"}`)
	result := runner.Run(context.Background(), req)

	if !result.OK {
		t.Fatalf("expected success, got kind=%s message=%q", result.Kind, result.Message)
	}
	if result.ContentType != "application/pdf" {
		t.Fatalf("content type = %q", result.ContentType)
	}
	if !strings.HasPrefix(string(result.Bytes), "%PDF") {
		t.Fatalf("unexpected output bytes: %q", result.Bytes)
	}
	assertWorkDirEmpty(t, workDir)
}

func TestRunnerEngineFailureSanitizesPaths(t *testing.T) {
	// The stub echoes both temp paths to stderr; neither may reach the client.
	engine := writeStubEngine(t, outputArgShell+`
echo "error in $1 while writing $out: unknown directive" >&2
exit 1`)
	workDir := t.TempDir()
	runner := convert.NewRunner(engine, workDir, 5*time.Second, logging.NewNop())

	req := mustParse(t, `{"content":"{bogus}"}`)
	result := runner.Run(context.Background(), req)

	if result.OK || result.Kind != convert.FailureEngine {
		t.Fatalf("expected engine failure, got %+v", result)
	}
	if strings.Contains(result.Message, workDir) {
		t.Fatalf("message leaks work dir: %q", result.Message)
	}
	if !strings.Contains(result.Message, "<input>") || !strings.Contains(result.Message, "<output>") {
		t.Fatalf("expected path placeholders in message: %q", result.Message)
	}
	if !strings.Contains(result.Message, "unknown directive") {
		t.Fatalf("diagnostic text lost: %q", result.Message)
	}
	assertWorkDirEmpty(t, workDir)
}

func TestRunnerEmptyStderrGetsFallbackMessage(t *testing.T) {
	engine := writeStubEngine(t, `exit 3`)
	workDir := t.TempDir()
	runner := convert.NewRunner(engine, workDir, 5*time.Second, logging.NewNop())

	result := runner.Run(context.Background(), mustParse(t, `{"content":"x"}`))
	if result.Kind != convert.FailureEngine {
		t.Fatalf("expected engine failure, got %+v", result)
	}
	if !strings.Contains(result.Message, "without diagnostics") {
		t.Fatalf("expected fallback message, got %q", result.Message)
	}
	assertWorkDirEmpty(t, workDir)
}

func TestRunnerTimeoutKillsEngine(t *testing.T) {
	engine := writeStubEngine(t, `sleep 30`)
	workDir := t.TempDir()
	runner := convert.NewRunner(engine, workDir, 200*time.Millisecond, logging.NewNop())

	start := time.Now()
	result := runner.Run(context.Background(), mustParse(t, `{"content":"x"}`))
	elapsed := time.Since(start)

	if result.OK || result.Kind != convert.FailureTimeout {
		t.Fatalf("expected timeout failure, got %+v", result)
	}
	if result.Message != "conversion exceeded time limit" {
		t.Fatalf("unexpected timeout message: %q", result.Message)
	}
	if elapsed > 10*time.Second {
		t.Fatalf("run did not return promptly after timeout: %v", elapsed)
	}
	assertWorkDirEmpty(t, workDir)
}

func TestRunnerMissingEngineIsInternal(t *testing.T) {
	workDir := t.TempDir()
	runner := convert.NewRunner(
		filepath.Join(t.TempDir(), "no-such-engine"),
		workDir, time.Second, logging.NewNop())

	result := runner.Run(context.Background(), mustParse(t, `{"content":"x"}`))
	if result.OK || result.Kind != convert.FailureInternal {
		t.Fatalf("expected internal failure, got %+v", result)
	}
	if result.Message != "conversion failed due to an internal error" {
		t.Fatalf("internal message not generic: %q", result.Message)
	}
	assertWorkDirEmpty(t, workDir)
}

func TestRunnerNoOutputFileIsInternal(t *testing.T) {
	// Stub exits 0 but never writes the output file.
	engine := writeStubEngine(t, `exit 0`)
	workDir := t.TempDir()
	runner := convert.NewRunner(engine, workDir, 5*time.Second, logging.NewNop())

	result := runner.Run(context.Background(), mustParse(t, `{"content":"x"}`))
	if result.OK || result.Kind != convert.FailureInternal {
		t.Fatalf("expected internal failure, got %+v", result)
	}
	assertWorkDirEmpty(t, workDir)
}

func TestRunnerConcurrentRunsDoNotCollide(t *testing.T) {
	engine := writeStubEngine(t, outputArgShell+`
cat "$1" > "$out"`)
	workDir := t.TempDir()
	runner := convert.NewRunner(engine, workDir, 5*time.Second, logging.NewNop())

	const workers = 8
	results := make(chan convert.Result, workers)
	for i := 0; i < workers; i++ {
		go func() {
			req := mustParse(t, `{"content":"{title: Song}","output_format":"cho"}`)
			results <- runner.Run(context.Background(), req)
		}()
	}
	for i := 0; i < workers; i++ {
		result := <-results
		if !result.OK {
			t.Fatalf("concurrent run failed: kind=%s message=%q", result.Kind, result.Message)
		}
		if string(result.Bytes) != "{title: Song}" {
			t.Fatalf("unexpected round-trip bytes: %q", result.Bytes)
		}
	}
	assertWorkDirEmpty(t, workDir)
}
