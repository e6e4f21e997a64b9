// Package mmap provides the cross-platform virtual memory primitives used to
// build mirrored (aliased) mappings: an anonymous shareable backing store,
// placeholder reservations, fixed-address views and their release.
package mmap

import "unsafe"

// Backing is an anonymous, shareable memory object sized at creation.
// The handle is transient: it can be closed as soon as every view is mapped,
// the pages live on as long as any view references them.
type Backing interface {
	Size() int
	Close() error
}

// Mapper is the platform capability the ring buffer is built on.
//
// Reserve returns a contiguous range with no access rights. MapFixed replaces
// a sub-range of such a reservation with a read/write view of the backing
// store placed exactly at addr. Unmap removes one view. Release frees whatever
// is left of a reservation, views that were already unmapped included.
type Mapper interface {
	Granularity() int
	CreateBacking(size int) (Backing, error)
	Reserve(size int) (uintptr, error)
	MapFixed(b Backing, addr uintptr, size int) error
	Unmap(addr uintptr, size int) error
	Release(addr uintptr, size int) error
}

// System returns the Mapper for the running platform.
func System() Mapper {
	return systemMapper{}
}

// Slice returns a byte slice over n bytes of mapped memory starting at addr.
// The memory is not managed by the Go runtime.
func Slice(addr uintptr, n int) []byte {
	if addr == 0 || n <= 0 {
		return nil
	}
	var data []byte
	sh := (*struct {
		Data uintptr
		Len  int
		Cap  int
	})(unsafe.Pointer(&data))
	sh.Data = addr
	sh.Len = n
	sh.Cap = n
	return data
}

// RoundUp rounds size up to the next multiple of granularity.
// It returns 0 if the result does not fit in an int.
func RoundUp(size, granularity int) int {
	if size <= 0 || granularity <= 0 {
		return 0
	}
	rem := size % granularity
	if rem == 0 {
		return size
	}
	n := size + (granularity - rem)
	if n < size {
		return 0
	}
	return n
}

// Error represents an mmap error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrInvalidSize    = &Error{Op: "invalid size"}
	ErrInvalidAddress = &Error{Op: "invalid address"}
	ErrMisplaced      = &Error{Op: "view not placed at requested address"}
	ErrClosed         = &Error{Op: "backing store closed"}
	ErrForeignBacking = &Error{Op: "backing store from another mapper"}
	ErrUnsupported    = &Error{Op: "not supported on this platform"}
)
