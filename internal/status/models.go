package status

import (
	"time"

	"github.com/google/uuid"
)

// Record is the revocation state of one issued credential, keyed by its JTI.
// Exactly one record exists per issued credential; revoked transitions
// false→true only.
type Record struct {
	CredentialID     uuid.UUID
	Revoked          bool
	RevocationReason *string
	UpdatedAt        time.Time
}
