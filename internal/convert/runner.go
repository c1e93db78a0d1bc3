package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"chordserve/internal/logging"
	"chordserve/internal/textutil"
)

const (
	// maxStderrCapture bounds how much engine stderr is buffered.
	maxStderrCapture = 8 << 10
	// maxExcerptBytes bounds the sanitized stderr excerpt sent to clients.
	maxExcerptBytes = 512
	// internalMessage is the only text internal failures expose to clients.
	internalMessage = "conversion failed due to an internal error"
	// timeoutMessage is the fixed text for engine timeouts.
	timeoutMessage = "conversion exceeded time limit"
	// killDelay is how long the runner waits for the engine to exit after the
	// kill signal before giving up on Wait.
	killDelay = 5 * time.Second
)

// Runner owns the temporary-file lifecycle and the bounded engine invocation.
// It is safe for concurrent use: every Run acquires its own uniquely named
// files and holds no shared state while blocked on the engine.
type Runner struct {
	engine  string
	workDir string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner builds a runner for the given engine binary. Temp files are
// created under workDir, which must exist.
func NewRunner(engine, workDir string, timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		engine:  engine,
		workDir: workDir,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "converter"),
	}
}

// Run invokes the engine for one validated request. The input and output
// temp files are removed on every exit path, including timeout. Exactly one
// invocation attempt is made; nothing is retried.
func (r *Runner) Run(ctx context.Context, req *Request) Result {
	log := logging.WithContext(ctx, r.logger)

	id := uuid.NewString()
	inputPath := filepath.Join(r.workDir, "input-"+id+".cho")
	outputPath := filepath.Join(r.workDir, "output-"+id+"."+req.Format.Extension())

	if err := os.WriteFile(inputPath, []byte(req.Content), 0o600); err != nil {
		log.Error("write conversion input", logging.Error(err))
		return Failure(FailureInternal, internalMessage)
	}
	defer removeQuietly(log, inputPath)
	defer removeQuietly(log, outputPath)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append([]string{inputPath, "-o", outputPath}, BuildArgs(req)...)
	cmd := exec.CommandContext(runCtx, r.engine, args...)
	cmd.Stdout = io.Discard
	stderr := &boundedBuffer{max: maxStderrCapture}
	cmd.Stderr = stderr
	configureProcessGroup(cmd)

	log.Debug("invoking engine",
		logging.String("engine", r.engine),
		logging.String("format", string(req.Format)),
		logging.Int("args", len(args)))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		log.Error("engine timed out",
			logging.Duration("elapsed", elapsed),
			logging.Duration("limit", r.timeout))
		return Failure(FailureTimeout, timeoutMessage)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		excerpt := r.sanitizeStderr(stderr.String(), inputPath, outputPath)
		log.Error("engine reported failure",
			logging.Int("exit_code", exitErr.ExitCode()),
			logging.String("stderr", excerpt),
			logging.Duration("elapsed", elapsed))
		return Failure(FailureEngine, excerpt)
	}
	if err != nil {
		log.Error("engine invocation failed", logging.Error(err))
		return Failure(FailureInternal, internalMessage)
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		log.Error("engine exited cleanly but produced no output", logging.Error(err))
		return Failure(FailureInternal, internalMessage)
	}

	log.Info("conversion complete",
		logging.String("format", string(req.Format)),
		logging.Int("bytes", len(output)),
		logging.Duration("elapsed", elapsed))
	return Success(output, req.Format.ContentType())
}

// sanitizeStderr scrubs the per-request paths and any other local path from
// the engine excerpt and caps its length.
func (r *Runner) sanitizeStderr(stderrText, inputPath, outputPath string) string {
	excerpt := textutil.ScrubPaths(stderrText, map[string]string{
		inputPath:  "<input>",
		outputPath: "<output>",
	})
	excerpt = textutil.TruncateExcerpt(excerpt, maxExcerptBytes)
	if excerpt == "" {
		excerpt = "engine reported failure without diagnostics"
	}
	return excerpt
}

func removeQuietly(log *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to remove temp file", logging.Error(err))
	}
}

// boundedBuffer keeps at most max bytes and silently drops the rest, so a
// chatty engine cannot grow request memory unbounded.
type boundedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	remaining := b.max - b.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *boundedBuffer) String() string { return b.buf.String() }
