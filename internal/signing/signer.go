// Package signing wraps claim sets into signed, time-bounded JWTs using the
// issuer's RSA key. Tokens are self-contained: verification needs only the
// public key and never consults the status registry.
package signing

import (
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alexchirea/digital-wallet-api/internal/keys"
	dErrors "github.com/alexchirea/digital-wallet-api/pkg/domain-errors"
)

// Clock is injected for testability; defaults to time.Now.
type Clock func() time.Time

// KeyProvider supplies the private signing key.
type KeyProvider interface {
	PrivateKey() (*rsa.PrivateKey, error)
}

// Signer produces signed credentials and status proofs.
type Signer struct {
	keys           KeyProvider
	credIssuer     string
	statusIssuer   string
	credentialTTL  time.Duration
	statusProofTTL time.Duration
	clock          Clock
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Signer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Signer. The credential issuer identity goes on full
// credentials; the status issuer identity on short-lived status proofs.
func New(kp KeyProvider, credIssuer, statusIssuer string, credentialTTL, statusProofTTL time.Duration, opts ...Option) *Signer {
	s := &Signer{
		keys:           kp,
		credIssuer:     credIssuer,
		statusIssuer:   statusIssuer,
		credentialTTL:  credentialTTL,
		statusProofTTL: statusProofTTL,
		clock:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SignCredential builds the full verifiable credential token. The jti is the
// revocation-registry key; callers must have registered it before signing.
func (s *Signer) SignCredential(subject, docType string, claims map[string]any, jti string) (string, error) {
	now := s.clock()
	payload := jwt.MapClaims{
		"jti":  jti,
		"sub":  subject,
		"type": docType,
		"iss":  s.credIssuer,
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(s.credentialTTL)),
	}
	mergeClaims(payload, claims)
	return s.sign(payload)
}

// SignStatusProof builds a short-lived assertion about a credential's current
// validity. Subject is the credential id itself; no jti is attached.
func (s *Signer) SignStatusProof(credentialID string, claims map[string]any) (string, error) {
	now := s.clock()
	payload := jwt.MapClaims{
		"sub": credentialID,
		"iss": s.statusIssuer,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(s.statusProofTTL)),
	}
	mergeClaims(payload, claims)
	return s.sign(payload)
}

func (s *Signer) sign(payload jwt.MapClaims) (string, error) {
	key, err := s.keys.PrivateKey()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSigningFailed, "signing key unavailable")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, payload)
	token.Header["kid"] = keys.KeyID
	signed, err := token.SignedString(key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSigningFailed, "could not sign token")
	}
	return signed, nil
}

// mergeClaims copies provider claims into the payload without letting them
// clobber the registered fields set above.
func mergeClaims(payload jwt.MapClaims, claims map[string]any) {
	for k, v := range claims {
		if _, reserved := payload[k]; reserved {
			continue
		}
		payload[k] = v
	}
}
