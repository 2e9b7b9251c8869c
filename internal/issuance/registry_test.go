package issuance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	typeName string
	claims   map[string]any
	err      error
}

func (p *staticProvider) TypeName() string { return p.typeName }

func (p *staticProvider) FetchClaims(context.Context, string) (map[string]any, error) {
	return p.claims, p.err
}

func TestRegistryResolve(t *testing.T) {
	diploma := &staticProvider{typeName: "UNIVERSITY_DIPLOMA"}
	idCard := &staticProvider{typeName: "IDENTITY_CARD"}

	registry, err := NewRegistry(diploma, idCard)
	require.NoError(t, err)

	t.Run("resolves an exact type name", func(t *testing.T) {
		p, ok := registry.Resolve("UNIVERSITY_DIPLOMA")
		require.True(t, ok)
		assert.Equal(t, diploma, p)
	})

	t.Run("resolves case-insensitively", func(t *testing.T) {
		p, ok := registry.Resolve("university_diploma")
		require.True(t, ok)
		assert.Equal(t, diploma, p)

		p, ok = registry.Resolve("Identity_Card")
		require.True(t, ok)
		assert.Equal(t, idCard, p)
	})

	t.Run("misses unknown types", func(t *testing.T) {
		_, ok := registry.Resolve("DRIVERS_LICENSE")
		assert.False(t, ok)
	})
}

func TestRegistryRejectsDuplicateTypes(t *testing.T) {
	_, err := NewRegistry(
		&staticProvider{typeName: "UNIVERSITY_DIPLOMA"},
		&staticProvider{typeName: "university_diploma"},
	)
	require.Error(t, err, "two providers for the same type is a configuration error")
	assert.Contains(t, err.Error(), "duplicate claim provider")
}
