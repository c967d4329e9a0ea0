package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-storage-portal/internal/models"
	"github.com/sbilibin2017/gw-storage-portal/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 42, Username: "alice", SizeGB: 10}

	tests := []struct {
		name         string
		reqBody      LoginRequest
		mockSetup    func(m *MockLoginer)
		expectedCode int
		checkBody    func(t *testing.T, body map[string]any)
	}{
		{
			name:    "success",
			reqBody: LoginRequest{Username: "alice", Password: "secret1"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "secret1").
					Return(user, "token123", nil)
			},
			expectedCode: 200,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "Login successful", body["message"])
				assert.Equal(t, "token123", body["token"])
				u := body["user"].(map[string]any)
				assert.Equal(t, float64(42), u["id"])
				assert.Equal(t, "alice", u["username"])
				assert.Equal(t, float64(10), u["size"])
			},
		},
		{
			name:         "missing password",
			reqBody:      LoginRequest{Username: "alice"},
			expectedCode: 400,
		},
		{
			name:    "unknown user",
			reqBody: LoginRequest{Username: "ghost", Password: "secret1"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "ghost", "secret1").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedCode: 401,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Invalid username or password", body["error"])
			},
		},
		{
			name:    "wrong password yields the same error",
			reqBody: LoginRequest{Username: "alice", Password: "wrong"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "wrong").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedCode: 401,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Invalid username or password", body["error"])
			},
		},
		{
			name:    "locked out",
			reqBody: LoginRequest{Username: "alice", Password: "secret1"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "secret1").
					Return(nil, "", services.ErrTooManyLoginAttempts)
			},
			expectedCode: 429,
		},
		{
			name:    "internal server error",
			reqBody: LoginRequest{Username: "alice", Password: "secret1"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "secret1").
					Return(nil, "", errors.New("database failure"))
			},
			expectedCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewLoginHandler(mockSvc)

			bodyBytes, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(bodyBytes))
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			if tt.checkBody != nil {
				tt.checkBody(t, resp)
			}
		})
	}
}
