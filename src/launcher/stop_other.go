//go:build !linux

package launcher

import (
	"time"

	"golang.org/x/sys/unix"
)

// Without waitid the stop cannot be observed without reaping the child, so
// give the shell a moment to reach it.
func waitStopped(pid int) error {
	time.Sleep(10 * time.Millisecond)
	if err := unix.Kill(pid, 0); err != nil {
		return ErrNotStopped
	}
	return nil
}
