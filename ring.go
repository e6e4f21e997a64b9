package vring

import (
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Giulio2002/vring/mmap"
)

// Ring is a fixed-capacity byte arena whose backing store is mapped
// MappingCount times at consecutive addresses. Byte i of every alias is the
// same physical byte, so a write that runs past the end of one unit continues
// at the start of the same storage without any copy.
//
// The zero value is an uninitialized ring. A Ring has a single owner and is
// not safe for concurrent use.
type Ring struct {
	base         uintptr
	unitSize     int
	mappingCount int
	data         []byte // all aliases, unitSize*mappingCount bytes

	mapper mmap.Mapper
	log    logrus.FieldLogger
}

// New returns an initialized ring of at least minSize bytes per alias.
// A nil opts uses DefaultOptions.
func New(minSize int, opts *Options) (*Ring, error) {
	r := &Ring{}
	if err := r.InitOptions(minSize, opts); err != nil {
		return nil, err
	}
	return r, nil
}

// Init maps mappingCount aliases of a backing store of at least minSize
// bytes, rounded up to the allocation granularity. On failure r is left
// uninitialized.
func (r *Ring) Init(minSize, mappingCount int) error {
	opts := DefaultOptions()
	opts.MappingCount = mappingCount
	return r.InitOptions(minSize, &opts)
}

// InitOptions is Init with explicit options. A nil opts uses DefaultOptions.
func (r *Ring) InitOptions(minSize int, opts *Options) error {
	if r == nil {
		return WrapError(InvalidArgument, errors.New("nil ring"))
	}
	if r.base != 0 {
		return ErrAlreadyInitialized
	}
	*r = Ring{}

	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if minSize < 1 {
		return WrapError(InvalidArgument, fmt.Errorf("min size %d, need at least 1", minSize))
	}

	m := opts.mapper()
	log := opts.logger()

	unit := mmap.RoundUp(minSize, m.Granularity())
	if unit == 0 || unit > math.MaxInt/opts.MappingCount {
		return WrapError(AllocationFailed, mmap.ErrInvalidSize)
	}

	base, err := mapAliases(m, unit, opts.MappingCount, opts.RetryLimit, log)
	if err != nil {
		log.WithFields(logrus.Fields{
			"min_size":      minSize,
			"unit_size":     unit,
			"mapping_count": opts.MappingCount,
		}).WithError(err).Debug("vring: init failed")
		return err
	}

	r.base = base
	r.unitSize = unit
	r.mappingCount = opts.MappingCount
	r.data = mmap.Slice(base, unit*opts.MappingCount)
	r.mapper = m
	r.log = log
	return nil
}

// Free unmaps every alias. Freeing an uninitialized ring is a no-op.
// The ring is cleared even when an unmap fails, so a second Free never
// touches the same addresses again.
func (r *Ring) Free() error {
	if r == nil || r.base == 0 {
		return nil
	}

	var result *multierror.Error
	for i := 0; i < r.mappingCount; i++ {
		if err := r.mapper.Unmap(r.aliasAddr(i), r.unitSize); err != nil {
			result = multierror.Append(result, fmt.Errorf("alias %d: %w", i, err))
		}
	}

	log := r.log
	*r = Ring{}

	if err := result.ErrorOrNil(); err != nil {
		log.WithError(err).Warn("vring: free")
		return WrapError(UnmapFailed, err)
	}
	return nil
}

// Initialized reports whether the ring is mapped.
func (r *Ring) Initialized() bool {
	return r != nil && r.base != 0
}

// Base returns the address of the first alias, or 0.
func (r *Ring) Base() uintptr {
	return r.base
}

// UnitSize returns the size of one alias in bytes.
func (r *Ring) UnitSize() int {
	return r.unitSize
}

// MappingCount returns the number of aliases.
func (r *Ring) MappingCount() int {
	return r.mappingCount
}

// Bytes returns the whole aliased range.
func (r *Ring) Bytes() []byte {
	return r.data
}

// Alias returns the i-th alias, or nil if i is out of range.
func (r *Ring) Alias(i int) []byte {
	if i < 0 || i >= r.mappingCount {
		return nil
	}
	return r.data[i*r.unitSize : (i+1)*r.unitSize : (i+1)*r.unitSize]
}

func (r *Ring) aliasAddr(i int) uintptr {
	return r.base + uintptr(i*r.unitSize)
}

func (r *Ring) String() string {
	if !r.Initialized() {
		return "vring.Ring{uninitialized}"
	}
	return fmt.Sprintf("vring.Ring{base: %#x, unit: %d, mappings: %d}", r.base, r.unitSize, r.mappingCount)
}
