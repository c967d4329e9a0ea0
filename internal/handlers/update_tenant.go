package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jellydator/validation"
	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
	"github.com/sbilibin2017/gw-storage-portal/internal/middlewares"
	"github.com/sbilibin2017/gw-storage-portal/internal/services"
)

// TenantResizer defines the interface that the tenant resize service must implement.
type TenantResizer interface {
	Resize(ctx context.Context, userID, newSizeGB int64) error
}

// UpdateTenantRequest represents the JSON body for resizing a tenant
// swagger:model UpdateTenantRequest
type UpdateTenantRequest struct {
	// User ID
	// required: true
	// default: 1
	UserID int64 `json:"userId"`

	// New storage quota in gigabytes
	// required: true
	// default: 20
	NewSize int64 `json:"newSize"`
}

// Validate checks presence and shape of the resize fields.
func (r UpdateTenantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID,
			validation.Required.Error("userId and newSize required")),
		validation.Field(&r.NewSize,
			validation.Required.Error("userId and newSize required"),
			validation.Min(int64(1)).Error("size must be at least 1 GB")),
	)
}

// UpdateTenantResponse represents a successful resize response
// swagger:model UpdateTenantResponse
type UpdateTenantResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: Storage size updated successfully
	Message string `json:"message"`

	// New storage quota in gigabytes
	// default: 20
	NewSize int64 `json:"newSize"`
}

// UpdateTenantErrorResponse represents an error response for resizing a tenant
// swagger:model UpdateTenantErrorResponse
type UpdateTenantErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Failed to update storage
	Error string `json:"error"`

	// Raw diagnostic detail, when available
	Details string `json:"details,omitempty"`
}

// NewUpdateTenantHandler returns an HTTP handler resizing a tenant's storage.
// @Summary Resize tenant storage
// @Description Grows the authenticated user's storage quota. Shrinking is rejected.
// @Tags tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param updateTenantRequest body handlers.UpdateTenantRequest true "Update tenant request"
// @Success 200 {object} handlers.UpdateTenantResponse "Storage resized"
// @Failure 400 {object} handlers.UpdateTenantErrorResponse "Missing fields / size below current quota"
// @Failure 403 {object} handlers.UpdateTenantErrorResponse "Token does not match userId"
// @Failure 500 {object} handlers.UpdateTenantErrorResponse "Script failure or store update failure"
// @Router /api/update-tenant [post]
func NewUpdateTenantHandler(svc TenantResizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateTenantRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateTenantErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := req.Validate(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateTenantErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if middlewares.GetUserIDFromContext(r.Context()) != req.UserID {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(UpdateTenantErrorResponse{
				Error: "forbidden",
			})
			return
		}

		if err := svc.Resize(r.Context(), req.UserID, req.NewSize); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(UpdateTenantErrorResponse{
					Error: "User not found",
				})
			case errors.Is(err, services.ErrSizeShrink):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(UpdateTenantErrorResponse{
					Error: "New size must not be smaller than current size",
				})
			case errors.Is(err, services.ErrStoreUpdateFailed):
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdateTenantErrorResponse{
					Error:   "Storage updated but failed to update database",
					Details: err.Error(),
				})
			default:
				logger.Log.Errorw("update tenant failed", "userID", req.UserID, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdateTenantErrorResponse{
					Error:   "Failed to update storage",
					Details: err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UpdateTenantResponse{
			Success: true,
			Message: "Storage size updated successfully",
			NewSize: req.NewSize,
		})
	}
}
