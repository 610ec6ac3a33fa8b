// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a requested listing or property does not
// exist. It is surfaced to callers, never retried internally.
var ErrNotFound = errors.New("not found")

// ErrUnmatched reports that enrichment was requested for a listing with
// no stored match result.
var ErrUnmatched = errors.New("listing not matched to a property")

// ErrSourceUnavailable reports that an external source errored or timed
// out. Enrichment recovers from it locally by leaving the corresponding
// fields nil; it never aborts the whole operation.
var ErrSourceUnavailable = errors.New("external source unavailable")

// ValidationError reports invalid user input rejected at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
