package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
	"github.com/sbilibin2017/gw-storage-portal/internal/models"
)

// UserLister defines the interface for the diagnostic user listing.
type UserLister interface {
	List(ctx context.Context) ([]models.UserListItem, error)
}

// UsersErrorResponse represents an error response for the user listing
// swagger:model UsersErrorResponse
type UsersErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewUsersHandler returns an HTTP handler listing all users.
// Diagnostic endpoint; password hashes are never included.
// @Summary List users
// @Description Returns all registered users with their quotas. Diagnostic, unauthenticated.
// @Tags users
// @Produce json
// @Success 200 {array} models.UserListItem "Registered users"
// @Failure 500 {object} handlers.UsersErrorResponse "Internal server error"
// @Router /api/users [get]
func NewUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to list users", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(UsersErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		if users == nil {
			users = []models.UserListItem{}
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(users)
	}
}
