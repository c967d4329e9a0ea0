package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-storage-portal/internal/middlewares"
	"github.com/stretchr/testify/assert"
)

func TestStartTenantHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		reqBody      StartTenantRequest
		authUserID   int64
		mockSetup    func(m *MockTenantStarter)
		expectedCode int
		checkBody    func(t *testing.T, body map[string]any)
	}{
		{
			name:       "success",
			reqBody:    StartTenantRequest{Username: "alice", UserID: 1},
			authUserID: 1,
			mockSetup: func(m *MockTenantStarter) {
				m.EXPECT().
					Start(gomock.Any(), int64(1)).
					Return(int64(9001), "started\n", nil)
			},
			expectedCode: 200,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "Tenant started successfully", body["message"])
				assert.Equal(t, float64(9001), body["port"])
				assert.Equal(t, "started\n", body["output"])
			},
		},
		{
			name:         "missing username",
			reqBody:      StartTenantRequest{UserID: 1},
			authUserID:   1,
			expectedCode: 400,
		},
		{
			name:         "missing userId",
			reqBody:      StartTenantRequest{Username: "alice"},
			authUserID:   1,
			expectedCode: 400,
		},
		{
			name:         "token for another user is rejected",
			reqBody:      StartTenantRequest{Username: "alice", UserID: 1},
			authUserID:   2,
			expectedCode: 403,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "forbidden", body["error"])
			},
		},
		{
			name:       "script failure",
			reqBody:    StartTenantRequest{Username: "alice", UserID: 1},
			authUserID: 1,
			mockSetup: func(m *MockTenantStarter) {
				m.EXPECT().
					Start(gomock.Any(), int64(1)).
					Return(int64(0), "", errors.New("start_tenant.sh failed: exit status 1"))
			},
			expectedCode: 500,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Failed to start tenant", body["error"])
				assert.Contains(t, body["details"], "start_tenant.sh")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockTenantStarter(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewStartTenantHandler(mockSvc)

			bodyBytes, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/start-tenant", bytes.NewBuffer(bodyBytes))
			req = req.WithContext(middlewares.SetUserIDToContext(req.Context(), tt.authUserID))

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
