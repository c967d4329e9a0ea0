package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-storage-portal/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		reqBody      RegisterRequest
		mockSetup    func(m *MockRegisterer)
		expectedCode int
		checkBody    func(t *testing.T, body map[string]any)
		rawBody      bool // if true, pass raw body (to simulate invalid JSON)
	}{
		{
			name:    "success",
			reqBody: RegisterRequest{Username: "alice", Password: "secret1", Size: 10},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "alice", "secret1", int64(10)).
					Return(int64(1), nil)
			},
			expectedCode: 201,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, float64(1), body["userId"])
			},
		},
		{
			name:         "missing username",
			reqBody:      RegisterRequest{Password: "secret1", Size: 10},
			expectedCode: 400,
		},
		{
			name:         "missing size",
			reqBody:      RegisterRequest{Username: "alice", Password: "secret1"},
			expectedCode: 400,
		},
		{
			name:         "password of length 5 rejected",
			reqBody:      RegisterRequest{Username: "alice", Password: "five5", Size: 10},
			expectedCode: 400,
		},
		{
			name:    "password of length 6 accepted",
			reqBody: RegisterRequest{Username: "alice", Password: "sixsix", Size: 10},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "alice", "sixsix", int64(10)).
					Return(int64(2), nil)
			},
			expectedCode: 201,
		},
		{
			name:    "duplicate username",
			reqBody: RegisterRequest{Username: "alice", Password: "secret1", Size: 10},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "alice", "secret1", int64(10)).
					Return(int64(0), services.ErrUserAlreadyExists)
			},
			expectedCode: 400,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Username already exists", body["error"])
			},
		},
		{
			name:    "provisioning failure",
			reqBody: RegisterRequest{Username: "alice", Password: "secret1", Size: 10},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "alice", "secret1", int64(10)).
					Return(int64(0), fmt.Errorf("%w: create_tenant.sh failed", services.ErrProvisionFailed))
			},
			expectedCode: 500,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "User created but storage setup failed. Please contact administrator.", body["error"])
				assert.Contains(t, body["details"], "create_tenant.sh")
			},
		},
		{
			name:    "internal server error",
			reqBody: RegisterRequest{Username: "bob", Password: "secret1", Size: 10},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "bob", "secret1", int64(10)).
					Return(int64(0), errors.New("database failure"))
			},
			expectedCode: 500,
		},
		{
			name:         "invalid json",
			rawBody:      true,
			expectedCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRegisterer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewRegisterHandler(mockSvc)

			var req *http.Request
			if tt.rawBody {
				req = httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString("{invalid json}"))
			} else {
				bodyBytes, _ := json.Marshal(tt.reqBody)
				req = httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBuffer(bodyBytes))
			}

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
