package vring

import "fmt"

// Error represents a vring error with an error code
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // wrapped error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vring: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("vring: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a vring error with the same code, so
// errors.Is(err, ErrAllocationFailed) matches any wrapped allocation failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// ErrorCode classifies ring buffer failures
type ErrorCode int

const (
	// Success indicates the operation completed successfully
	Success ErrorCode = 0

	// AllocationFailed indicates the backing store could not be created or
	// sized, or the address space could not be reserved
	AllocationFailed ErrorCode = -1

	// ReservationExhausted indicates every reservation attempt collided with
	// another mapping before all aliases were placed
	ReservationExhausted ErrorCode = -2

	// UnmapFailed indicates one or more aliases could not be unmapped
	UnmapFailed ErrorCode = -3

	// InvalidArgument indicates a size, count or limit out of range
	InvalidArgument ErrorCode = -4

	// AlreadyInitialized indicates Init on a ring that is still mapped
	AlreadyInitialized ErrorCode = -5

	// NotInitialized indicates use of a ring that is not mapped
	NotInitialized ErrorCode = -6

	// RecordTooLarge indicates a cursor write of unit size or more
	RecordTooLarge ErrorCode = -7
)

// Error descriptions
var errorMessages = map[ErrorCode]string{
	Success:              "success",
	AllocationFailed:     "allocation failed",
	ReservationExhausted: "address space reservation retries exhausted",
	UnmapFailed:          "unmap failed",
	InvalidArgument:      "invalid argument",
	AlreadyInitialized:   "ring already initialized",
	NotInitialized:       "ring not initialized",
	RecordTooLarge:       "record does not fit in one unit",
}

// NewError creates a new Error with the given code
func NewError(code ErrorCode) *Error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", code)
	}
	return &Error{Code: code, Message: msg}
}

// WrapError creates a new Error wrapping another error
func WrapError(code ErrorCode, err error) *Error {
	e := NewError(code)
	e.Err = err
	return e
}

// Common error variables, for use with errors.Is
var (
	ErrAllocationFailed     = NewError(AllocationFailed)
	ErrReservationExhausted = NewError(ReservationExhausted)
	ErrUnmapFailed          = NewError(UnmapFailed)
	ErrInvalidArgument      = NewError(InvalidArgument)
	ErrAlreadyInitialized   = NewError(AlreadyInitialized)
	ErrNotInitialized       = NewError(NotInitialized)
	ErrRecordTooLarge       = NewError(RecordTooLarge)
)
