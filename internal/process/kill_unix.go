//go:build !windows

package process

import "syscall"

// killTree sends SIGKILL to the process group led by pid. Browsers
// launched by rod run as group leaders, so helpers die with them.
func killTree(pid int) error {
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil && err != syscall.ESRCH {
		return err
	}
	return nil
}
