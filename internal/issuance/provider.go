package issuance

import "context"

// ClaimProvider is the strategy seam for credential data. Each provider
// knows how to assemble the claim set for exactly one credential type,
// typically by calling out to the system of record for that document.
type ClaimProvider interface {
	// TypeName is the case-insensitive discriminator matched against the
	// requested credential type.
	TypeName() string

	// FetchClaims resolves the attribute set for an anonymized subject.
	// Failures abort the issuance before any status record is created.
	FetchClaims(ctx context.Context, rootIdentityHash string) (map[string]any, error)
}
