package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexchirea/digital-wallet-api/internal/platform/middleware"
	dErrors "github.com/alexchirea/digital-wallet-api/pkg/domain-errors"
)

// ErrorResponse is the consistent error envelope across the API. The code
// field is the contract frontends are allowed to branch on.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain errors into the error envelope. Classified
// business errors pass through with their code and message; anything else is
// logged and reported as a generic internal error without leaking detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var we *dErrors.WalletError
	code := dErrors.CodeInternal
	message := "an unexpected error occurred"

	errors.As(err, &we)
	if we != nil && we.Code != dErrors.CodeInternal {
		code = we.Code
		message = we.Message
	} else {
		logger.ErrorContext(r.Context(), "internal error",
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}

	status := dErrors.ToHTTPStatus(code)
	writeJSON(w, status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Code:      string(code),
		Message:   message,
		Path:      r.URL.Path,
	})
}
