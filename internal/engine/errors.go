// =============================
// File: internal/engine/errors.go
// =============================
package engine

import (
	"errors"
	"fmt"
)

// ErrBundleConfirmation marks a bundle that was sent but never confirmed
// inside the timeout. A bundle either fully lands or counts as not landed.
var ErrBundleConfirmation = errors.New("bundle confirmation failed")

// BatchError wraps the first unrecovered per-item failure of a batch run,
// together with the index that triggered the abort.
type BatchError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch aborted at item %d: %v", e.Index, e.Err)
}

// Unwrap exposes the triggering error.
func (e *BatchError) Unwrap() error {
	return e.Err
}
