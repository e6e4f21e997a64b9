// Package tformat formats short-lived strings into a vring.Ring.
//
// Every record is written in place at the ring's cursor and followed by a
// NUL byte. A returned slice aliases the ring and stays intact until about
// one unit size of later output has been written, so callers that keep a
// result must copy it.
package tformat

import (
	"fmt"

	"github.com/Giulio2002/vring"
)

// Formatter writes formatted records into a ring. It is not safe for
// concurrent use.
type Formatter struct {
	cur *vring.Cursor
}

// New returns a Formatter writing into r. r needs at least two mappings.
func New(r *vring.Ring) (*Formatter, error) {
	cur, err := vring.NewCursor(r)
	if err != nil {
		return nil, err
	}
	return &Formatter{cur: cur}, nil
}

// Cursor returns the underlying cursor.
func (f *Formatter) Cursor() *vring.Cursor {
	if f == nil {
		return nil
	}
	return f.cur
}

// MaxLen is the longest record Tprintf returns untruncated.
func (f *Formatter) MaxLen() int {
	if f == nil || !f.cur.Ring().Initialized() {
		return 0
	}
	// One byte for the terminator, and a record must stay under a unit.
	return f.cur.Ring().UnitSize() - 2
}

// Tprintf formats into the ring and returns the result without its NUL
// terminator. Output longer than MaxLen is truncated. It returns nil if the
// formatter is nil or its ring has been freed.
func (f *Formatter) Tprintf(format string, args ...any) []byte {
	if f == nil {
		return nil
	}
	limit := f.MaxLen()
	if limit <= 0 {
		return nil
	}

	w, err := f.cur.Window(limit + 1)
	if err != nil {
		return nil
	}

	buf := w[:0:limit]
	out := fmt.Appendf(buf, format, args...)
	n := len(out)
	if n > limit {
		// Appendf outgrew the window and moved to the heap.
		n = copy(w[:limit], out)
	}

	w[n] = 0
	f.cur.Advance(n + 1)
	return w[:n:n]
}

// Tstring is Tprintf returning a heap copy.
func (f *Formatter) Tstring(format string, args ...any) string {
	return string(f.Tprintf(format, args...))
}

// Value formats v for display: strings and byte slices verbatim, floats
// in the shortest exact form, everything else with %v.
func (f *Formatter) Value(v any) []byte {
	switch x := v.(type) {
	case string:
		return f.Tprintf("%s", x)
	case []byte:
		return f.Tprintf("%s", x)
	case float32, float64:
		return f.Tprintf("%g", x)
	default:
		return f.Tprintf("%v", v)
	}
}
