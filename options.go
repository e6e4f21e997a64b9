package vring

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Giulio2002/vring/mmap"
)

// Options configures Init.
type Options struct {
	// MappingCount is the number of aliases of the backing store.
	MappingCount int

	// RetryLimit bounds the reserve-then-map attempts.
	RetryLimit int

	// Mapper provides the platform primitives. Nil means mmap.System().
	Mapper mmap.Mapper

	// Logger receives retry and teardown diagnostics. Nil means the package logger.
	Logger logrus.FieldLogger
}

// DefaultOptions returns the options Init uses when none are given.
func DefaultOptions() Options {
	return Options{
		MappingCount: DefaultMappingCount,
		RetryLimit:   DefaultRetryLimit,
	}
}

// Validate checks the counts. A zero mapping count is rejected rather than
// coerced to a default.
func (o *Options) Validate() error {
	if o.MappingCount < MinMappingCount {
		return WrapError(InvalidArgument, fmt.Errorf("mapping count %d, need at least %d", o.MappingCount, MinMappingCount))
	}
	if o.RetryLimit < 1 {
		return WrapError(InvalidArgument, fmt.Errorf("retry limit %d, need at least 1", o.RetryLimit))
	}
	return nil
}

func (o *Options) mapper() mmap.Mapper {
	if o.Mapper != nil {
		return o.Mapper
	}
	return mmap.System()
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger
}
