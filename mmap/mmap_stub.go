//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !(windows && (amd64 || arm64))

package mmap

import "os"

type systemMapper struct{}

func (systemMapper) Granularity() int {
	return os.Getpagesize()
}

func (systemMapper) CreateBacking(int) (Backing, error) {
	return nil, ErrUnsupported
}

func (systemMapper) Reserve(int) (uintptr, error) {
	return 0, ErrUnsupported
}

func (systemMapper) MapFixed(Backing, uintptr, int) error {
	return ErrUnsupported
}

func (systemMapper) Unmap(uintptr, int) error {
	return ErrUnsupported
}

func (systemMapper) Release(uintptr, int) error {
	return ErrUnsupported
}
