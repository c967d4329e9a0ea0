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

// TenantDestroyer defines the interface that the tenant delete service must implement.
type TenantDestroyer interface {
	Destroy(ctx context.Context, userID int64) error
}

// DeleteTenantRequest represents the JSON body for deleting a tenant
// swagger:model DeleteTenantRequest
type DeleteTenantRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// User ID
	// required: true
	// default: 1
	UserID int64 `json:"userId"`
}

// Validate checks presence of the delete fields.
func (r DeleteTenantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username and userId required")),
		validation.Field(&r.UserID,
			validation.Required.Error("username and userId required")),
	)
}

// DeleteTenantResponse represents a successful delete response
// swagger:model DeleteTenantResponse
type DeleteTenantResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: Storage and account deleted successfully
	Message string `json:"message"`
}

// DeleteTenantErrorResponse represents an error response for deleting a tenant
// swagger:model DeleteTenantErrorResponse
type DeleteTenantErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Failed to delete storage
	Error string `json:"error"`

	// Raw diagnostic detail, when available
	Details string `json:"details,omitempty"`
}

// NewDeleteTenantHandler returns an HTTP handler deleting a tenant and its account.
// @Summary Delete tenant storage and account
// @Description Destroys the authenticated user's storage instance and removes the account record.
// @Tags tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deleteTenantRequest body handlers.DeleteTenantRequest true "Delete tenant request"
// @Success 200 {object} handlers.DeleteTenantResponse "Storage and account deleted"
// @Failure 400 {object} handlers.DeleteTenantErrorResponse "Missing fields"
// @Failure 403 {object} handlers.DeleteTenantErrorResponse "Token does not match userId"
// @Failure 500 {object} handlers.DeleteTenantErrorResponse "Script failure or store delete failure"
// @Router /api/delete-tenant [post]
func NewDeleteTenantHandler(svc TenantDestroyer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteTenantRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DeleteTenantErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := req.Validate(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DeleteTenantErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if middlewares.GetUserIDFromContext(r.Context()) != req.UserID {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(DeleteTenantErrorResponse{
				Error: "forbidden",
			})
			return
		}

		if err := svc.Destroy(r.Context(), req.UserID); err != nil {
			switch {
			case errors.Is(err, services.ErrStoreDeleteFailed):
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DeleteTenantErrorResponse{
					Error:   "Storage deleted but failed to remove account from database",
					Details: err.Error(),
				})
			default:
				logger.Log.Errorw("delete tenant failed", "userID", req.UserID, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DeleteTenantErrorResponse{
					Error:   "Failed to delete storage",
					Details: err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteTenantResponse{
			Success: true,
			Message: "Storage and account deleted successfully",
		})
	}
}
