//go:build windows

package convert

import "os/exec"

// configureProcessGroup is a no-op on Windows; CommandContext's default kill
// applies.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = killDelay
}
