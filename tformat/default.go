package tformat

import (
	"sync"

	"github.com/Giulio2002/vring"
)

// Default arena geometry
const (
	// DefaultMinSize is the minimum unit size of the default arena
	DefaultMinSize = 16384

	// DefaultMappingCount is the number of aliases of the default arena
	DefaultMappingCount = 2
)

// The default arena is created on first use and freed by Shutdown. The
// mutex only guards creation and teardown; formatting through it is still
// single-owner.
var (
	defaultMu   sync.Mutex
	defaultRing vring.Ring
	defaultFmt  *Formatter
)

// Default returns the process-wide formatter, creating its arena on first
// use. It returns nil if the arena cannot be mapped.
func Default() *Formatter {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultFmt != nil {
		return defaultFmt
	}

	if err := defaultRing.Init(DefaultMinSize, DefaultMappingCount); err != nil {
		vring.Logger().WithError(err).Debug("tformat: default arena unavailable")
		return nil
	}

	f, err := New(&defaultRing)
	if err != nil {
		defaultRing.Free()
		return nil
	}
	defaultFmt = f
	return f
}

// Shutdown frees the default arena. Slices returned by the package-level
// functions are invalid afterwards. A later call recreates the arena.
func Shutdown() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultFmt = nil
	return defaultRing.Free()
}

// Tprintf formats into the default arena. It returns nil if the arena is
// unavailable.
func Tprintf(format string, args ...any) []byte {
	return Default().Tprintf(format, args...)
}

// Tstring is Tprintf returning a heap copy.
func Tstring(format string, args ...any) string {
	return Default().Tstring(format, args...)
}

// Value formats v into the default arena.
func Value(v any) []byte {
	return Default().Value(v)
}
