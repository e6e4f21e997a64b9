package tformat

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/Giulio2002/vring"
	"github.com/Giulio2002/vring/mmap"
)

func newFormatter(t *testing.T, minSize int) (*vring.Ring, *Formatter) {
	t.Helper()

	r := &vring.Ring{}
	err := r.Init(minSize, 2)
	if errors.Is(err, mmap.ErrUnsupported) {
		t.Skip("mirrored mappings not supported on this platform")
	}
	require.NoError(t, err)
	t.Cleanup(func() { r.Free() })

	f, err := New(r)
	require.NoError(t, err)
	return r, f
}

type point struct{ x, y int }

func (p point) String() string { return fmt.Sprintf("point{%d,%d}", p.x, p.y) }

func TestTprintf(t *testing.T) {
	r, f := newFormatter(t, 4096)

	s := f.Tprintf("mystruct{%d}", 5)
	require.Equal(t, "mystruct{5}", string(s))
	require.Equal(t, len(s)+1, f.Cursor().Offset(), "cursor advances past the terminator")
	require.Equal(t, byte(0), r.Bytes()[len(s)])

	s2 := f.Tprintf("other{%d}", 2)
	require.Equal(t, "other{2}", string(s2))
	require.Equal(t, "mystruct{5}", string(s), "earlier record intact")
	require.Equal(t, uintptr(unsafe.Pointer(&r.Bytes()[len(s)+1])), uintptr(unsafe.Pointer(&s2[0])))
}

func TestTprintfEmpty(t *testing.T) {
	_, f := newFormatter(t, 4096)

	s := f.Tprintf("")
	require.NotNil(t, s)
	require.Empty(t, s)
	require.Equal(t, 1, f.Cursor().Offset())
}

func TestTprintfAcrossBoundary(t *testing.T) {
	r, f := newFormatter(t, 4096)
	unit := r.UnitSize()

	f.Cursor().Advance(unit - 4)
	s := f.Tprintf("%s-%d", "wrapped", 99)
	require.Equal(t, "wrapped-99", string(s))
	require.Equal(t, (unit-4+len(s)+1)%unit, f.Cursor().Offset())
	require.Equal(t, "ped-99", string(r.Alias(0)[:6]))
}

func TestTprintfTruncates(t *testing.T) {
	r, f := newFormatter(t, 4096)

	long := strings.Repeat("z", 2*r.UnitSize())
	s := f.Tprintf("%s", long)
	require.Len(t, s, f.MaxLen())
	require.Equal(t, long[:f.MaxLen()], string(s))
	require.Equal(t, r.UnitSize()-1, f.Cursor().Offset())

	// The cursor keeps working after a maximal record.
	require.Equal(t, "next", string(f.Tprintf("next")))
}

func TestTprintfManyLaps(t *testing.T) {
	r, f := newFormatter(t, 4096)

	for i := 0; i < 5*r.UnitSize()/8; i++ {
		s := f.Tprintf("rec-%05d", i)
		require.Equal(t, fmt.Sprintf("rec-%05d", i), string(s))
		require.Less(t, f.Cursor().Offset(), r.UnitSize())
	}
}

func TestTstring(t *testing.T) {
	_, f := newFormatter(t, 4096)
	require.Equal(t, "a=1 b=two", f.Tstring("a=%d b=%s", 1, "two"))
}

func TestValue(t *testing.T) {
	_, f := newFormatter(t, 4096)

	tests := []struct {
		in   any
		want string
	}{
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(200), "200"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{"str", "str"},
		{[]byte("bytes"), "bytes"},
		{point{1, 2}, "point{1,2}"},
		{errors.New("bad"), "bad"},
		{time.Duration(1500) * time.Millisecond, "1.5s"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, string(f.Value(tt.in)), "%T", tt.in)
	}
}

func TestFormatterAfterFree(t *testing.T) {
	r, f := newFormatter(t, 4096)
	require.NoError(t, r.Free())

	require.Nil(t, f.Tprintf("gone"))
	require.Zero(t, f.MaxLen())
}

func TestNilFormatter(t *testing.T) {
	var f *Formatter
	require.Nil(t, f.Tprintf("x"))
	require.Equal(t, "", f.Tstring("x"))
	require.Nil(t, f.Cursor())
	require.Zero(t, f.MaxLen())
}

func TestNewNeedsTwoMappings(t *testing.T) {
	r := &vring.Ring{}
	err := r.Init(4096, 1)
	if errors.Is(err, mmap.ErrUnsupported) {
		t.Skip("mirrored mappings not supported on this platform")
	}
	require.NoError(t, err)
	defer r.Free()

	_, err = New(r)
	require.ErrorIs(t, err, vring.ErrInvalidArgument)

	_, err = New(&vring.Ring{})
	require.ErrorIs(t, err, vring.ErrNotInitialized)
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Skip("default arena unavailable on this platform")
	}
	t.Cleanup(func() { Shutdown() })

	require.Same(t, Default(), Default())
	require.Equal(t, DefaultMappingCount, Default().Cursor().Ring().MappingCount())
	require.GreaterOrEqual(t, Default().Cursor().Ring().UnitSize(), DefaultMinSize)

	require.Equal(t, "x=3", string(Tprintf("x=%d", 3)))
	require.Equal(t, "y", Tstring("%c", 'y'))
	require.Equal(t, "false", string(Value(false)))

	require.NoError(t, Shutdown())
	require.NoError(t, Shutdown(), "second shutdown is a no-op")

	// Next use brings the arena back.
	require.Equal(t, "again", string(Tprintf("again")))
}
