//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup terminates the browser and its child processes with
// taskkill (/F force, /T tree). Non-positive PIDs are ignored.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored; launcher.Kill runs afterwards as a fallback
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
