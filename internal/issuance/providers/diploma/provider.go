// Package diploma provides claims for university diploma credentials.
package diploma

import "context"

// Provider serves UNIVERSITY_DIPLOMA claims. Records are static until the
// institute's registry API is integrated.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) TypeName() string {
	return "UNIVERSITY_DIPLOMA"
}

func (p *Provider) FetchClaims(_ context.Context, _ string) (map[string]any, error) {
	return map[string]any{
		"degree":     "Bachelor of Science",
		"major":      "Computer Science",
		"gpa":        "3.9",
		"university": "Lexera Tech Institute",
	}, nil
}
