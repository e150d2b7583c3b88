package domain

import "errors"

// Domain errors represent map store failures.
// These are distinct from infrastructure errors, which are wrapped.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Map file errors.

	// ErrUnrecognizedCategory indicates the first line of a file is not a known map category.
	ErrUnrecognizedCategory = errors.New("not a recognized map file")

	// ErrUnknownScanType indicates a data section names a scan source that was never declared.
	ErrUnknownScanType = errors.New("unknown scan type")

	// ErrReadCancelled indicates a read was stopped before reaching the end of the file.
	ErrReadCancelled = errors.New("map read cancelled")

	// Handle errors.

	// ErrHandleClosed indicates the map handle has been closed.
	ErrHandleClosed = errors.New("map handle closed")

	// ErrNoFile indicates the operation needs a file name and none is known.
	ErrNoFile = errors.New("no map file")
)
