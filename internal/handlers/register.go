package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jellydator/validation"
	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
	"github.com/sbilibin2017/gw-storage-portal/internal/services"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, username, password string, sizeGB int64) (int64, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Password, at least 6 characters
	// required: true
	// default: secret123
	Password string `json:"password"`

	// Requested storage quota in gigabytes
	// required: true
	// default: 10
	Size int64 `json:"size"`
}

// Validate checks presence and shape of the registration fields.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username, password, and size required")),
		validation.Field(&r.Password,
			validation.Required.Error("username, password, and size required"),
			validation.Length(6, 0).Error("password must be at least 6 characters")),
		validation.Field(&r.Size,
			validation.Required.Error("username, password, and size required"),
			validation.Min(int64(1)).Error("size must be at least 1 GB")),
	)
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: User registered and storage created successfully
	Message string `json:"message"`

	// Newly assigned user ID
	// default: 1
	UserID int64 `json:"userId"`
}

// RegisterErrorResponse represents an error response for registration
// swagger:model RegisterErrorResponse
type RegisterErrorResponse struct {
	// Success flag
	// default: false
	Success bool `json:"success"`

	// Error message
	// default: Username already exists
	Error string `json:"error"`

	// Raw diagnostic detail, when available
	Details string `json:"details,omitempty"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account with a storage quota and provisions its storage instance.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.RegisterResponse "User registered and storage created"
// @Failure 400 {object} handlers.RegisterErrorResponse "Invalid request / username already exists"
// @Failure 500 {object} handlers.RegisterErrorResponse "Storage provisioning failed"
// @Router /api/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RegisterErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := req.Validate(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RegisterErrorResponse{
				Error: err.Error(),
			})
			return
		}

		userID, err := svc.Register(r.Context(), req.Username, req.Password, req.Size)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "Username already exists",
				})
			case errors.Is(err, services.ErrProvisionFailed):
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error:   "User created but storage setup failed. Please contact administrator.",
					Details: err.Error(),
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(RegisterResponse{
			Success: true,
			Message: "User registered and storage created successfully",
			UserID:  userID,
		})
	}
}
