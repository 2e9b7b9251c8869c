package audit

import "time"

// Action names a credential-lifecycle event worth keeping a trail of.
type Action string

const (
	ActionUserCreated       Action = "user_created"
	ActionCredentialIssued  Action = "credential_issued"
	ActionCredentialRevoked Action = "credential_revoked"
	ActionStatusProofIssued Action = "status_proof_issued"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. SubjectHash is the
// anonymized root identity hash; raw PII never enters the audit trail.
type Event struct {
	Action         Action
	Timestamp      time.Time
	CredentialID   string
	CredentialType string
	SubjectHash    string
	Reason         string
	RequestID      string
}
