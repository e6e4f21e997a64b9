//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package mmap

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

type systemMapper struct{}

// fdBacking is a backing store referenced by a file descriptor.
type fdBacking struct {
	fd   int
	size int
}

func (b *fdBacking) Size() int {
	return b.size
}

// Close releases the descriptor. Views mapped from it stay valid.
func (b *fdBacking) Close() error {
	if b.fd < 0 {
		return nil
	}
	err := unix.Close(b.fd)
	b.fd = -1
	if err != nil {
		return &Error{Op: "close", Err: err}
	}
	return nil
}

// Granularity returns the page size.
func (systemMapper) Granularity() int {
	return unix.Getpagesize()
}

// CreateBacking creates an anonymous descriptor truncated to exactly size bytes.
func (systemMapper) CreateBacking(size int) (Backing, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	fd, err := anonymousFd()
	if err != nil {
		return nil, err
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, &Error{Op: "ftruncate", Err: err}
	}

	return &fdBacking{fd: fd, size: size}, nil
}

// Reserve maps size bytes of inaccessible private memory at an address
// chosen by the kernel.
func (systemMapper) Reserve(size int) (uintptr, error) {
	if size <= 0 {
		return 0, ErrInvalidSize
	}

	p, err := unix.MmapPtr(-1, 0, nil, uintptr(size), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, &Error{Op: "mmap reserve", Err: err}
	}
	return uintptr(p), nil
}

// MapFixed maps the backing store read/write over [addr, addr+size).
// MAP_FIXED replaces whatever part of the reservation was there.
func (systemMapper) MapFixed(b Backing, addr uintptr, size int) error {
	fb, ok := b.(*fdBacking)
	if !ok {
		return ErrForeignBacking
	}
	if fb.fd < 0 {
		return ErrClosed
	}
	if addr == 0 {
		return ErrInvalidAddress
	}
	if size <= 0 || size > fb.size {
		return ErrInvalidSize
	}

	p, err := unix.MmapPtr(fb.fd, 0, unsafe.Pointer(addr), uintptr(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_FIXED)
	if err != nil {
		return &Error{Op: "mmap fixed", Err: err}
	}

	if uintptr(p) != addr {
		unix.MunmapPtr(p, uintptr(size))
		return ErrMisplaced
	}
	return nil
}

// Unmap removes the view at [addr, addr+size).
func (systemMapper) Unmap(addr uintptr, size int) error {
	if addr == 0 {
		return ErrInvalidAddress
	}
	if size <= 0 {
		return ErrInvalidSize
	}
	if err := unix.MunmapPtr(unsafe.Pointer(addr), uintptr(size)); err != nil {
		return &Error{Op: "munmap", Err: err}
	}
	return nil
}

// Release unmaps the whole range. munmap tolerates holes, so views already
// removed by Unmap are fine.
func (m systemMapper) Release(addr uintptr, size int) error {
	if addr == 0 {
		return ErrInvalidAddress
	}
	if size <= 0 {
		return ErrInvalidSize
	}
	if err := unix.MunmapPtr(unsafe.Pointer(addr), uintptr(size)); err != nil {
		return &Error{Op: "munmap reservation", Err: err}
	}
	return nil
}
