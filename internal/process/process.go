// Package process terminates browser process trees left behind when a
// graceful shutdown fails.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that cannot name a child process.
var ErrInvalidPID = errors.New("invalid process id")

// KillTree forcibly terminates pid and its descendants. It is a
// best-effort fallback: callers usually ignore the error after a failed
// graceful close.
func KillTree(pid int) error {
	// 0 and negative values address the caller's own process group.
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return killTree(pid)
}
