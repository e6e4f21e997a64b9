//go:build linux

package mmap

import "golang.org/x/sys/unix"

// anonymousFd returns a memfd. It has no directory entry.
func anonymousFd() (int, error) {
	fd, err := unix.MemfdCreate("vring", unix.MFD_CLOEXEC)
	if err != nil {
		return -1, &Error{Op: "memfd_create", Err: err}
	}
	return fd, nil
}
