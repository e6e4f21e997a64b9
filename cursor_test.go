package vring

import (
	"fmt"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func newCursor(t *testing.T, minSize int) (*Ring, *Cursor) {
	t.Helper()

	r := newRing(t, minSize, 2)
	c, err := NewCursor(r)
	require.NoError(t, err)
	return r, c
}

func TestCursorPut(t *testing.T) {
	r, c := newCursor(t, 4096)

	rec, err := c.Put([]byte("first"))
	require.NoError(t, err)
	require.Equal(t, "first", string(rec))
	require.Equal(t, 5, c.Offset())

	rec, err = c.Put([]byte("second"))
	require.NoError(t, err)
	require.Equal(t, "second", string(rec))
	require.Equal(t, 11, c.Offset())

	require.Equal(t, "firstsecond", string(r.Bytes()[:11]))
}

func TestCursorViewIsInPlace(t *testing.T) {
	r, c := newCursor(t, 4096)

	c.Advance(100)
	rec, err := c.Put([]byte("in place"))
	require.NoError(t, err)
	require.Equal(t, uintptr(unsafe.Pointer(&r.Bytes()[100])), uintptr(unsafe.Pointer(&rec[0])))
	require.Equal(t, r.Base()+100, uintptr(unsafe.Pointer(&rec[0])))
}

func TestCursorSpill(t *testing.T) {
	r, c := newCursor(t, 16384)
	unit := r.UnitSize()

	c.Advance(unit - 3)
	require.Equal(t, unit-3, c.Offset())

	rec, err := c.Put([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(rec))
	require.Equal(t, 2, c.Offset())

	// The view is never re-based to 0.
	require.Equal(t, r.Base()+uintptr(unit-3), uintptr(unsafe.Pointer(&rec[0])))
	require.Equal(t, "lo", string(r.Alias(0)[:2]))
	require.Equal(t, "hel", string(r.Alias(0)[unit-3:]))
}

func TestCursorWrapsModuloUnit(t *testing.T) {
	r, c := newCursor(t, 4096)
	unit := r.UnitSize()

	rec := []byte(strings.Repeat("r", 1000))
	total := 0
	for i := 0; i < 3*unit/len(rec); i++ {
		_, err := c.Put(rec)
		require.NoError(t, err)
		total += len(rec)
		require.Equal(t, total%unit, c.Offset())
		require.Less(t, c.Offset(), unit)
	}
}

func TestCursorAdvanceExactUnit(t *testing.T) {
	r, c := newCursor(t, 4096)

	c.Advance(r.UnitSize() - 1)
	c.Advance(1)
	require.Equal(t, 0, c.Offset())

	c.Advance(-10)
	require.Equal(t, 0, c.Offset())
}

func TestCursorRecordTooLarge(t *testing.T) {
	r, c := newCursor(t, 4096)
	unit := r.UnitSize()

	_, err := c.Put(make([]byte, unit))
	require.ErrorIs(t, err, ErrRecordTooLarge)
	require.Equal(t, 0, c.Offset())

	_, err = c.Window(-1)
	require.ErrorIs(t, err, ErrRecordTooLarge)

	// One byte short of a lap is the largest record, from any offset.
	c.Advance(unit - 1)
	rec, err := c.Put(make([]byte, unit-1))
	require.NoError(t, err)
	require.Len(t, rec, unit-1)
	require.Equal(t, unit-2, c.Offset())
}

func TestCursorRecordSurvivesUntilLap(t *testing.T) {
	r, c := newCursor(t, 4096)
	unit := r.UnitSize()

	old, err := c.Put([]byte("old record"))
	require.NoError(t, err)

	filler := make([]byte, unit/4)
	for written := len("old record"); written+len(filler) <= unit; written += len(filler) {
		_, err := c.Put(filler)
		require.NoError(t, err)
		require.Equal(t, "old record", string(old))
	}

	// The next record reaches back over the start of the ring.
	_, err = c.Put(filler)
	require.NoError(t, err)
	require.NotEqual(t, "old record", string(old))
}

func TestCursorWindow(t *testing.T) {
	_, c := newCursor(t, 4096)

	w, err := c.Window(8)
	require.NoError(t, err)
	require.Len(t, w, 8)
	require.Equal(t, 8, cap(w))
	require.Equal(t, 0, c.Offset(), "Window does not advance")

	copy(w, "windowed")
	c.Advance(len(w))
	require.Equal(t, 8, c.Offset())
}

func TestCursorWriter(t *testing.T) {
	r, c := newCursor(t, 4096)

	n, err := fmt.Fprintf(c, "n=%d", 42)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "n=42", string(r.Bytes()[:4]))

	_, err = c.Write(make([]byte, r.UnitSize()))
	require.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestCursorReset(t *testing.T) {
	r, c := newCursor(t, 4096)
	c.Advance(17)
	c.Reset()
	require.Equal(t, 0, c.Offset())
	require.Same(t, r, c.Ring())
}

func TestCursorNeedsTwoMappings(t *testing.T) {
	r := newRing(t, 4096, 1)
	_, err := NewCursor(r)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCursorUninitialized(t *testing.T) {
	_, err := NewCursor(&Ring{})
	require.ErrorIs(t, err, ErrNotInitialized)

	_, err = NewCursor(nil)
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestCursorAfterFree(t *testing.T) {
	r, c := newCursor(t, 4096)
	c.Advance(10)
	require.NoError(t, r.Free())

	_, err := c.Put([]byte("x"))
	require.ErrorIs(t, err, ErrNotInitialized)

	c.Advance(5)
	require.Equal(t, 10, c.Offset())
}
