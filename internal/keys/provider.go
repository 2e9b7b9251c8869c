// Package keys owns the issuer's RSA signing key pair. Key generation is
// expensive and happens at most once per process; every accessor returns the
// same cached pair.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"sync"

	jose "github.com/go-jose/go-jose/v3"
)

// KeyID tags the public JWK so relying parties can match tokens to the
// verification key. Stable for the single-key deployment this service runs.
const KeyID = "wallet-signing-key"

const keyBits = 2048

// Provider exposes the signing key and its public descriptor.
type Provider struct {
	once sync.Once
	pair *rsa.PrivateKey
	err  error
}

// NewProvider returns a provider that generates its key pair lazily on first
// use. Call Generate at startup to surface generation failures before
// serving traffic.
func NewProvider() *Provider {
	return &Provider{}
}

// Generate creates the RSA key pair if it does not exist yet. Failure is
// unrecoverable and should abort startup, not be retried per-request.
func (p *Provider) Generate() error {
	p.once.Do(func() {
		pair, err := rsa.GenerateKey(rand.Reader, keyBits)
		if err != nil {
			p.err = fmt.Errorf("generate rsa key pair: %w", err)
			return
		}
		p.pair = pair
	})
	return p.err
}

// PrivateKey returns the signing key.
func (p *Provider) PrivateKey() (*rsa.PrivateKey, error) {
	if err := p.Generate(); err != nil {
		return nil, err
	}
	return p.pair, nil
}

// PublicKey returns the verification key.
func (p *Provider) PublicKey() (*rsa.PublicKey, error) {
	if err := p.Generate(); err != nil {
		return nil, err
	}
	return &p.pair.PublicKey, nil
}

// PublicJWK returns the JSON Web Key description of the public key, suitable
// for the discovery endpoint.
func (p *Provider) PublicJWK() (jose.JSONWebKey, error) {
	pub, err := p.PublicKey()
	if err != nil {
		return jose.JSONWebKey{}, err
	}
	return jose.JSONWebKey{
		Key:       pub,
		KeyID:     KeyID,
		Algorithm: "RS256",
		Use:       "sig",
	}, nil
}
