// Package vring is a virtual-memory-backed circular buffer.
//
// A Ring maps one anonymous backing store several times at consecutive
// addresses, so the same physical bytes appear once per alias. Writers treat
// the ring as a flat buffer of UnitSize bytes but may run up to
// (MappingCount-1)*UnitSize bytes past any offset: the excess lands in the
// next alias, which is the start of the same storage. No wraparound copy or
// split write is ever needed.
//
// Key properties:
//   - UnitSize is MinSize rounded up to the page size (allocation
//     granularity on Windows)
//   - Init either maps every alias or leaves the ring uninitialized
//   - Free is safe to call twice and always clears the ring
//   - Reservation races with other mappings are retried a bounded number of times
//   - No internal locking: a Ring and its Cursor have a single owner
//
// Basic usage:
//
//	var r vring.Ring
//	if err := r.Init(16384, 2); err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Free()
//
//	cur, err := vring.NewCursor(&r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Records near the end of the unit spill into the second alias
//	// and still come back as one contiguous slice.
//	rec, err := cur.Put([]byte("hello"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s\n", rec)
package vring
