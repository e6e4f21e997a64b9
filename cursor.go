package vring

import "fmt"

// Cursor writes variable-length records into a Ring one after another,
// wrapping at the unit size. Because the ring has at least two aliases, a
// record that starts near the end of the unit is still written as one
// contiguous slice: its tail lands in the next alias, which is the head of
// the same storage.
//
// A record stays readable until the cursor comes back around to it, one unit
// size of writes later. Like the Ring, a Cursor has a single owner.
type Cursor struct {
	ring   *Ring
	offset int
}

// NewCursor returns a cursor at offset 0 of r.
func NewCursor(r *Ring) (*Cursor, error) {
	if !r.Initialized() {
		return nil, ErrNotInitialized
	}
	if r.mappingCount < MinCursorMappingCount {
		return nil, WrapError(InvalidArgument, fmt.Errorf("cursor needs %d mappings, ring has %d", MinCursorMappingCount, r.mappingCount))
	}
	return &Cursor{ring: r}, nil
}

// Ring returns the ring the cursor writes into.
func (c *Cursor) Ring() *Ring {
	return c.ring
}

// Offset returns the next write position, in [0, UnitSize).
func (c *Cursor) Offset() int {
	return c.offset
}

// Reset moves the cursor back to offset 0.
func (c *Cursor) Reset() {
	c.offset = 0
}

// Window returns n writable bytes at the cursor without advancing it.
// n must be less than the unit size.
func (c *Cursor) Window(n int) ([]byte, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if n < 0 || n >= c.ring.unitSize {
		return nil, WrapError(RecordTooLarge, fmt.Errorf("%d bytes, unit size %d", n, c.ring.unitSize))
	}
	end := c.offset + n
	return c.ring.data[c.offset:end:end], nil
}

// Advance moves the cursor n bytes forward, modulo the unit size.
func (c *Cursor) Advance(n int) {
	if n <= 0 || !c.ring.Initialized() {
		return
	}
	c.offset += n
	for c.offset >= c.ring.unitSize {
		c.offset -= c.ring.unitSize
	}
}

// Put copies p to the cursor and advances past it. The returned slice is
// the record in place, starting at the old offset.
func (c *Cursor) Put(p []byte) ([]byte, error) {
	w, err := c.Window(len(p))
	if err != nil {
		return nil, err
	}
	copy(w, p)
	c.Advance(len(p))
	return w, nil
}

// Write implements io.Writer on top of Put.
func (c *Cursor) Write(p []byte) (int, error) {
	if _, err := c.Put(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Cursor) check() error {
	if !c.ring.Initialized() {
		return ErrNotInitialized
	}
	if c.ring.mappingCount < MinCursorMappingCount {
		return ErrInvalidArgument
	}
	if c.offset >= c.ring.unitSize {
		// The ring was freed and mapped again with a smaller unit.
		c.offset = 0
	}
	return nil
}
