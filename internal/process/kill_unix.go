//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the browser's process group so renderer
// and GPU helpers die with it. Non-positive PIDs are ignored: -0 would target
// our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored; launcher.Kill runs afterwards as a fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
