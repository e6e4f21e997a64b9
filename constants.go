package vring

// Mapping defaults
const (
	// DefaultMappingCount is how many aliases Init places when not told otherwise
	DefaultMappingCount = 3

	// MinMappingCount is the smallest usable mapping count
	MinMappingCount = 1

	// MinCursorMappingCount is the smallest mapping count a Cursor accepts;
	// a spilled write needs a second alias to land in
	MinCursorMappingCount = 2
)

// Reservation limits
const (
	// DefaultRetryLimit bounds the reserve-then-map attempts made by Init
	DefaultRetryLimit = 10
)
