// Package deps reports the availability of the external binaries chordserve
// invokes, for startup diagnostics and the health endpoint.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout bounds the best-effort --version invocation so health checks
// cannot hang on a wedged engine install.
const probeTimeout = 2 * time.Second

// Requirement defines an external dependency chordserve relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Engine returns the requirement for the conversion engine binary.
func Engine(binary string) Requirement {
	return Requirement{
		Name:        "ChordPro engine",
		Command:     binary,
		Description: "renders chord-sheet markup to PDF, HTML, and text",
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(req))
	}
	return results
}

func check(req Requirement) Status {
	command := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     command,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if command == "" {
		status.Detail = "command not configured"
		return status
	}
	if !strings.Contains(command, "/") {
		if _, err := exec.LookPath(command); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found on PATH", command)
			return status
		}
		status.Available = true
		return status
	}
	// Absolute or relative path: LookPath also verifies the execute bit.
	if _, err := exec.LookPath(command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not executable", command)
		return status
	}
	status.Available = true
	return status
}

// ProbeVersion runs the binary with --version and returns the first line of
// output. Best effort: failures are reported, never fatal.
func ProbeVersion(ctx context.Context, binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "", fmt.Errorf("probe version: empty binary")
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("probe %s version: %w", binary, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line), nil
}
