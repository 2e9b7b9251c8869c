// Package idcard provides claims for identity card credentials, resolved
// from the wallet's own user registry.
package idcard

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexchirea/digital-wallet-api/internal/identity"
	"github.com/alexchirea/digital-wallet-api/pkg/sentinel"
)

// UserFinder is the slice of the identity store this provider needs.
type UserFinder interface {
	FindByRootHash(ctx context.Context, rootHash string) (*identity.User, error)
}

// Provider serves IDENTITY_CARD claims for registered users. An unknown
// root hash is an upstream data failure, not an unsupported type.
type Provider struct {
	users UserFinder
}

func New(users UserFinder) *Provider {
	return &Provider{users: users}
}

func (p *Provider) TypeName() string {
	return "IDENTITY_CARD"
}

func (p *Provider) FetchClaims(ctx context.Context, rootIdentityHash string) (map[string]any, error) {
	user, err := p.users.FindByRootHash(ctx, rootIdentityHash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("no registered identity for the given hash: %w", err)
		}
		return nil, fmt.Errorf("identity lookup: %w", err)
	}
	return map[string]any{
		"firstName":      user.FirstName,
		"lastName":       user.LastName,
		"email":          user.Email,
		"documentNumber": user.ID.String(),
	}, nil
}
