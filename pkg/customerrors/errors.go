// Package customerrors defines common errors shared by the index, the free
// list and the row table.
package customerrors

import (
	"errors"
)

var (
	// ErrClosed is returned by any operation attempted after Close.
	ErrClosed = errors.New("operation on closed store")

	// ErrInvalidRange is returned by range lookups when low > high.
	ErrInvalidRange = errors.New("invalid range: low is greater than high")

	// ErrInvalidBlockSize is returned when a block size yields an order
	// smaller than 3.
	ErrInvalidBlockSize = errors.New("block size too small")

	// ErrCorruptNode is returned when a block read back from disk does not
	// decode into a valid node, or when a structural check fails.
	ErrCorruptNode = errors.New("corrupt node")

	// ErrOutOfRange is returned when a read reaches past the end of file.
	ErrOutOfRange = errors.New("address out of range")

	// ErrNilAddress is returned when 0 is used as a row address. 0 is
	// reserved to mean "not found".
	ErrNilAddress = errors.New("nil address")

	// ErrFieldCount is returned when a row has a different number of fields
	// than the table declares.
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrFieldTooLong is returned when a field value does not fit into its
	// fixed width.
	ErrFieldTooLong = errors.New("field is too long")
)
