package vring

import (
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Giulio2002/vring/mmap"
)

// mapAliases creates a backing store of unit bytes and maps count aliases of
// it back to back. It returns the base of the aliased range, or an error with
// nothing left mapped or reserved.
//
// Reserving and then filling the range is not atomic against other mappings
// made by the process, so a collision while placing an alias unrolls the
// attempt and starts over at a fresh address, at most retries times.
func mapAliases(m mmap.Mapper, unit, count, retries int, log logrus.FieldLogger) (uintptr, error) {
	total := unit * count

	b, err := m.CreateBacking(unit)
	if err != nil {
		return 0, WrapError(AllocationFailed, err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.WithError(err).Warn("vring: closing backing store")
		}
	}()

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		base, err := m.Reserve(total)
		if err != nil {
			return 0, WrapError(AllocationFailed, err)
		}

		mapped, err := placeAliases(m, b, base, unit, count)
		if err == nil {
			return base, nil
		}
		lastErr = err

		log.WithFields(logrus.Fields{
			"attempt":   attempt,
			"alias":     mapped,
			"unit_size": unit,
		}).WithError(err).Debug("vring: alias placement failed, unrolling")

		if uerr := unroll(m, base, unit, mapped, total); uerr != nil {
			log.WithError(uerr).Warn("vring: unrolling partial mapping")
			return 0, WrapError(AllocationFailed, uerr)
		}
	}

	return 0, WrapError(ReservationExhausted, lastErr)
}

// placeAliases maps the backing store at every unit boundary of the
// reservation. It returns how many aliases were placed.
func placeAliases(m mmap.Mapper, b mmap.Backing, base uintptr, unit, count int) (int, error) {
	for i := 0; i < count; i++ {
		if err := m.MapFixed(b, base+uintptr(i*unit), unit); err != nil {
			return i, err
		}
	}
	return count, nil
}

// unroll unmaps the first mapped aliases and releases the reservation.
// The release runs even if an unmap failed.
func unroll(m mmap.Mapper, base uintptr, unit, mapped, total int) error {
	var result *multierror.Error
	for j := 0; j < mapped; j++ {
		if err := m.Unmap(base+uintptr(j*unit), unit); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := m.Release(base, total); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
