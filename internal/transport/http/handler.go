package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	jose "github.com/go-jose/go-jose/v3"
	"github.com/google/uuid"

	"github.com/alexchirea/digital-wallet-api/internal/identity"
	"github.com/alexchirea/digital-wallet-api/internal/platform/middleware"
	"github.com/alexchirea/digital-wallet-api/internal/status"
	dErrors "github.com/alexchirea/digital-wallet-api/pkg/domain-errors"
)

// IdentityService covers identity onboarding operations.
type IdentityService interface {
	CreateRootHash(firstName, lastName, nationalID string) string
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.User, error)
}

// IssuanceService executes the end-to-end issuance workflow.
type IssuanceService interface {
	Issue(ctx context.Context, rootIdentityHash, credentialType string) (string, error)
}

// StatusService covers revocation and status-proof operations.
type StatusService interface {
	RevokeCredential(ctx context.Context, id uuid.UUID, reason string) error
	GetStatus(ctx context.Context, id uuid.UUID) (*status.Record, error)
	GetSignedStatusProof(ctx context.Context, id uuid.UUID) (string, error)
}

// KeyDescriptor exposes the public key discovery document.
type KeyDescriptor interface {
	PublicJWK() (jose.JSONWebKey, error)
}

// Handler is the thin HTTP layer. It delegates to domain services without
// embedding business logic so transport concerns remain isolated.
type Handler struct {
	logger   *slog.Logger
	identity IdentityService
	issuance IssuanceService
	status   StatusService
	keys     KeyDescriptor
}

func NewHandler(logger *slog.Logger, identitySvc IdentityService, issuanceSvc IssuanceService, statusSvc StatusService, keys KeyDescriptor) *Handler {
	return &Handler{
		logger:   logger,
		identity: identitySvc,
		issuance: issuanceSvc,
		status:   statusSvc,
		keys:     keys,
	}
}

type createUserRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	NationalID      string `json:"nationalId"`
	DevicePublicKey string `json:"devicePublicKey,omitempty"`
}

type createUserResponse struct {
	ID               string `json:"id"`
	RootIdentityHash string `json:"rootIdentityHash"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	user, err := h.identity.Register(ctx, identity.RegisterRequest{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		NationalID:      req.NationalID,
		Email:           req.Email,
		DevicePublicKey: req.DevicePublicKey,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		"request_id", middleware.GetRequestID(ctx),
		"user_id", user.ID.String(),
	)
	writeJSON(w, http.StatusCreated, createUserResponse{
		ID:               user.ID.String(),
		RootIdentityHash: user.RootIdentityHash,
	})
}

type issueCredentialRequest struct {
	RootIdentityHash string `json:"rootIdentityHash"`
	Type             string `json:"type"`
}

type credentialResponse struct {
	Credential string `json:"credential"`
}

func (h *Handler) handleIssueCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req issueCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.RootIdentityHash == "" || req.Type == "" {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeValidation, "rootIdentityHash and type are required"))
		return
	}

	token, err := h.issuance.Issue(ctx, req.RootIdentityHash, req.Type)
	if err != nil {
		h.logger.WarnContext(ctx, "issuance failed",
			"request_id", middleware.GetRequestID(ctx),
			"type", req.Type,
			"code", string(dErrors.CodeOf(err)),
		)
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, credentialResponse{Credential: token})
}

type revokeCredentialRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleRevokeCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	credentialID, err := uuid.Parse(chi.URLParam(r, "credentialID"))
	if err != nil {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeValidation, "credential id must be a valid UUID"))
		return
	}

	var req revokeCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Reason == "" {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeValidation, "a revocation reason is required for the audit trail"))
		return
	}

	if err := h.status.RevokeCredential(ctx, credentialID, req.Reason); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "credential revoked",
		"request_id", middleware.GetRequestID(ctx),
		"credential_id", credentialID.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

type statusProofResponse struct {
	StatusProof string `json:"statusProof"`
}

func (h *Handler) handleCredentialStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	credentialID, err := uuid.Parse(chi.URLParam(r, "credentialID"))
	if err != nil {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeValidation, "credential id must be a valid UUID"))
		return
	}

	proof, err := h.status.GetSignedStatusProof(ctx, credentialID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, statusProofResponse{StatusProof: proof})
}

// handleJWKS serves the public key discovery document. Unauthenticated and
// cacheable so relying parties can verify credentials offline.
func (h *Handler) handleJWKS(w http.ResponseWriter, r *http.Request) {
	jwk, err := h.keys.PublicJWK()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, jose.JSONWebKeySet{Keys: []jose.JSONWebKey{jwk}})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
