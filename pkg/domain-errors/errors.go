// Package domainerrors defines the coded business errors the wallet core
// raises. An error is classified once at the point of detection and carried
// unmodified to the transport boundary, where ToHTTPStatus maps its code to
// a status class. The code string is the contract frontends branch on.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code is a stable machine-readable error code.
type Code string

const (
	// CodeValidation covers malformed client input (bad UUID, missing field).
	CodeValidation Code = "ERR_VALIDATION"

	// CodeUnsupportedType is returned when no claim provider handles the
	// requested credential type.
	CodeUnsupportedType Code = "ERR_UNSUPPORTED_TYPE"

	// CodeClaimFetchFailed is returned when the resolved claim provider
	// cannot retrieve data for the subject. Upstream failure, not retried.
	CodeClaimFetchFailed Code = "ERR_CLAIM_FETCH_FAILED"

	// CodeSigningFailed is returned when the private key is unusable.
	CodeSigningFailed Code = "ERR_SIGNING_FAILED"

	// CodeCredentialNotFound is returned on status lookup for an unknown id.
	CodeCredentialNotFound Code = "CREDENTIAL_NOT_FOUND"

	// CodeCredentialRevoked is returned when a status proof is requested for
	// a revoked credential. A defined business outcome, not a system fault.
	CodeCredentialRevoked Code = "ERR_CREDENTIAL_REVOKED"

	// CodeAlreadyRegistered is returned when a root identity hash is
	// already present in the user registry.
	CodeAlreadyRegistered Code = "ERR_ALREADY_REGISTERED"

	// CodeInternal is the catch-all for unclassified failures. The boundary
	// never echoes internal detail for this code.
	CodeInternal Code = "ERR_INTERNAL"
)

// WalletError carries a machine code alongside a human-readable message.
type WalletError struct {
	Code    Code
	Message string
	cause   error
}

func (e *WalletError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *WalletError) Unwrap() error { return e.cause }

// New creates a coded error.
func New(code Code, message string) *WalletError {
	return &WalletError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *WalletError {
	return &WalletError{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its status class. Claim-fetch failures are
// upstream errors and surface as 502 rather than blaming the client.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeUnsupportedType:
		return http.StatusBadRequest
	case CodeCredentialNotFound:
		return http.StatusNotFound
	case CodeCredentialRevoked:
		return http.StatusForbidden
	case CodeAlreadyRegistered:
		return http.StatusConflict
	case CodeClaimFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
