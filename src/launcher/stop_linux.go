package launcher

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Blocks until the child pid has stopped. WNOWAIT leaves the exit status for
// the watcher's Wait.
func waitStopped(pid int) error {
	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, pid, &info, unix.WSTOPPED|unix.WEXITED|unix.WNOWAIT, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	if info.Code != unix.CLD_STOPPED {
		return ErrNotStopped
	}
	return nil
}
