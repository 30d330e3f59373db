package store

import (
	"strconv"

	"github.com/agilira/go-errors"
)

// Error codes for table operations.
const (
	// The requested capacity cannot back a table.
	ErrCodeInvalidCapacity errors.ErrorCode = "BENCHCACHED_INVALID_CAPACITY"

	// Every slot was probed and none could take the new key.
	ErrCodeTableFull errors.ErrorCode = "BENCHCACHED_TABLE_FULL"
)

// NewErrInvalidCapacity creates an error for an unusable table capacity.
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithField(ErrCodeInvalidCapacity,
		"capacity must be a positive power of two", "capacity", strconv.Itoa(capacity))
}

// NewErrTableFull creates an error for an insert that found no free slot.
func NewErrTableFull(capacity int) error {
	return errors.NewWithField(ErrCodeTableFull,
		"no empty or deleted slot left for a new key", "capacity", strconv.Itoa(capacity))
}

// IsInvalidCapacity reports whether err is a capacity validation error.
func IsInvalidCapacity(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidCapacity)
}

// IsTableFull reports whether err signals a full table.
func IsTableFull(err error) bool {
	return errors.HasCode(err, ErrCodeTableFull)
}
