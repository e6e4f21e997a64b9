//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// anonymousFd returns a descriptor to a temporary file that is unlinked
// before it is handed out. memfd_create is Linux only.
func anonymousFd() (int, error) {
	f, err := os.CreateTemp("", "vring-*")
	if err != nil {
		return -1, &Error{Op: "create temp", Err: err}
	}
	name := f.Name()
	defer os.Remove(name)
	defer f.Close()

	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return -1, &Error{Op: "dup", Err: err}
	}
	unix.CloseOnExec(fd)
	return fd, nil
}
