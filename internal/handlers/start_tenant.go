package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jellydator/validation"
	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
	"github.com/sbilibin2017/gw-storage-portal/internal/middlewares"
)

// TenantStarter defines the interface that the tenant start service must implement.
type TenantStarter interface {
	Start(ctx context.Context, userID int64) (int64, string, error)
}

// StartTenantRequest represents the JSON body for starting a tenant
// swagger:model StartTenantRequest
type StartTenantRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// User ID
	// required: true
	// default: 1
	UserID int64 `json:"userId"`
}

// Validate checks presence of the start fields.
func (r StartTenantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username and userId required")),
		validation.Field(&r.UserID,
			validation.Required.Error("username and userId required")),
	)
}

// StartTenantResponse represents a successful start response
// swagger:model StartTenantResponse
type StartTenantResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: Tenant started successfully
	Message string `json:"message"`

	// Port where the tenant's storage is reachable
	// default: 9001
	Port int64 `json:"port"`

	// Script output
	Output string `json:"output"`
}

// StartTenantErrorResponse represents an error response for starting a tenant
// swagger:model StartTenantErrorResponse
type StartTenantErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Failed to start tenant
	Error string `json:"error"`

	// Raw diagnostic detail, when available
	Details string `json:"details,omitempty"`
}

// NewStartTenantHandler returns an HTTP handler starting a tenant's storage.
// @Summary Start tenant storage
// @Description Starts the authenticated user's storage instance and returns its port.
// @Tags tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param startTenantRequest body handlers.StartTenantRequest true "Start tenant request"
// @Success 200 {object} handlers.StartTenantResponse "Tenant started"
// @Failure 400 {object} handlers.StartTenantErrorResponse "Missing fields"
// @Failure 403 {object} handlers.StartTenantErrorResponse "Token does not match userId"
// @Failure 500 {object} handlers.StartTenantErrorResponse "Script failure"
// @Router /api/start-tenant [post]
func NewStartTenantHandler(svc TenantStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartTenantRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(StartTenantErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := req.Validate(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(StartTenantErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if middlewares.GetUserIDFromContext(r.Context()) != req.UserID {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(StartTenantErrorResponse{
				Error: "forbidden",
			})
			return
		}

		port, output, err := svc.Start(r.Context(), req.UserID)
		if err != nil {
			logger.Log.Errorw("start tenant failed", "userID", req.UserID, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(StartTenantErrorResponse{
				Error:   "Failed to start tenant",
				Details: err.Error(),
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(StartTenantResponse{
			Success: true,
			Message: "Tenant started successfully",
			Port:    port,
			Output:  output,
		})
	}
}
