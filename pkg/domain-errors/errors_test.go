package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(New(CodeValidation, "bad input")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain error")), "unclassified errors default to internal")
	assert.Equal(t, CodeInternal, CodeOf(nil))

	wrapped := fmt.Errorf("outer: %w", New(CodeCredentialRevoked, "revoked"))
	assert.Equal(t, CodeCredentialRevoked, CodeOf(wrapped), "the code survives further wrapping")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeClaimFetchFailed, "could not retrieve claims")

	assert.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, CodeClaimFetchFailed))
	assert.Contains(t, err.Error(), "could not retrieve claims")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnsupportedType, http.StatusBadRequest},
		{CodeCredentialNotFound, http.StatusNotFound},
		{CodeCredentialRevoked, http.StatusForbidden},
		{CodeAlreadyRegistered, http.StatusConflict},
		{CodeClaimFetchFailed, http.StatusBadGateway},
		{CodeSigningFailed, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.code))
		})
	}
}
