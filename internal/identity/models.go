package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered wallet holder. PII fields are opaque strings to the
// core; the Postgres store encrypts them at rest.
type User struct {
	ID               uuid.UUID
	RootIdentityHash string
	FirstName        string
	LastName         string
	NationalID       string
	Email            string
	DevicePublicKey  string
	CreatedAt        time.Time
}
