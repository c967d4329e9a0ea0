package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(m *MockTokener)
		expectedCode int
		wantUserID   int64
		wantCalled   bool
	}{
		{
			name: "valid token reaches the handler with the user ID in context",
			mockSetup: func(m *MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("token123", nil)
				m.EXPECT().GetUserID(gomock.Any(), "token123").Return(int64(42), nil)
			},
			expectedCode: 200,
			wantUserID:   42,
			wantCalled:   true,
		},
		{
			name: "missing token",
			mockSetup: func(m *MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("", errors.New("authorization header missing"))
			},
			expectedCode: 401,
		},
		{
			name: "invalid token",
			mockSetup: func(m *MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("bad", nil)
				m.EXPECT().GetUserID(gomock.Any(), "bad").Return(int64(0), errors.New("invalid token"))
			},
			expectedCode: 401,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			tt.mockSetup(mockTokener)

			var called bool
			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUserID = GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/start-tenant", nil)
			rr := httptest.NewRecorder()

			AuthMiddleware(mockTokener)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestUserIDContextRoundTrip(t *testing.T) {
	ctx := SetUserIDToContext(context.Background(), 7)
	assert.Equal(t, int64(7), GetUserIDFromContext(ctx))

	assert.Equal(t, int64(0), GetUserIDFromContext(context.Background()))
}
