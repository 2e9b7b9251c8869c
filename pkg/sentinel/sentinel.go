package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with the right
// machine code and status class.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: unique constraint would be violated
// - ErrUnavailable: backing store temporarily unreachable
//
// For business-rule violations use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
