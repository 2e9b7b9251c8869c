package issuance

import (
	"fmt"
	"strings"
)

// Registry maps credential types to their claim providers. It is built once
// at startup; duplicate registrations for the same type are a configuration
// error and fail the boot rather than silently picking a winner.
type Registry struct {
	providers map[string]ClaimProvider
}

func NewRegistry(providers ...ClaimProvider) (*Registry, error) {
	r := &Registry{providers: make(map[string]ClaimProvider, len(providers))}
	for _, p := range providers {
		key := strings.ToLower(p.TypeName())
		if existing, ok := r.providers[key]; ok {
			return nil, fmt.Errorf("duplicate claim provider for type %q (already registered by %q)",
				p.TypeName(), existing.TypeName())
		}
		r.providers[key] = p
	}
	return r, nil
}

// Resolve selects the provider for a requested type, case-insensitively.
func (r *Registry) Resolve(credentialType string) (ClaimProvider, bool) {
	p, ok := r.providers[strings.ToLower(credentialType)]
	return p, ok
}
