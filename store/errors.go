package store

import (
	"errors"
	"fmt"
)

// ErrInvalidK is returned by Search when k is not positive.
var ErrInvalidK = errors.New("store: k must be positive")

// ErrInvalidDimension indicates an invalid configured collection dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("store: invalid dimension: %d", e.Dimension)
}

// OpenError reports that the engine for a collection could not be opened.
// It surfaces to every caller awaiting the shared connection, current and
// future alike; initialization is never retried.
//
// The underlying error can be accessed via errors.Unwrap.
type OpenError struct {
	Collection string
	cause      error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("store: open collection %q: %v", e.Collection, e.cause)
}

func (e *OpenError) Unwrap() error { return e.cause }

// TransactionError reports that a write, delete, or clear was rejected by the
// engine. The whole transaction is aborted; no partial writes survive.
//
// The underlying error can be accessed via errors.Unwrap.
type TransactionError struct {
	Op    string
	cause error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("store: %s transaction: %v", e.Op, e.cause)
}

func (e *TransactionError) Unwrap() error { return e.cause }

// CursorError reports a scan failure mid-iteration. A failed search discards
// any partially built result.
//
// The underlying error can be accessed via errors.Unwrap.
type CursorError struct {
	cause error
}

func (e *CursorError) Error() string {
	return fmt.Sprintf("store: cursor: %v", e.cause)
}

func (e *CursorError) Unwrap() error { return e.cause }
