package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-storage-portal/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUsersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		mockSetup    func(m *MockUserLister)
		expectedCode int
		checkBody    func(t *testing.T, body []byte)
	}{
		{
			name: "returns users",
			mockSetup: func(m *MockUserLister) {
				m.EXPECT().List(gomock.Any()).Return([]models.UserListItem{
					{ID: 1, Username: "alice", SizeGB: 10, CreatedAt: createdAt},
					{ID: 2, Username: "bob", SizeGB: 5, CreatedAt: createdAt},
				}, nil)
			},
			expectedCode: 200,
			checkBody: func(t *testing.T, body []byte) {
				var users []map[string]any
				assert.NoError(t, json.Unmarshal(body, &users))
				assert.Len(t, users, 2)
				assert.Equal(t, "alice", users[0]["username"])
				assert.Equal(t, float64(10), users[0]["size"])
				assert.NotContains(t, users[0], "password_hash")
			},
		},
		{
			name: "empty store returns empty array",
			mockSetup: func(m *MockUserLister) {
				m.EXPECT().List(gomock.Any()).Return(nil, nil)
			},
			expectedCode: 200,
			checkBody: func(t *testing.T, body []byte) {
				var users []map[string]any
				assert.NoError(t, json.Unmarshal(body, &users))
				assert.NotNil(t, users)
				assert.Len(t, users, 0)
			},
		},
		{
			name: "store error",
			mockSetup: func(m *MockUserLister) {
				m.EXPECT().List(gomock.Any()).Return(nil, errors.New("database failure"))
			},
			expectedCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserLister(ctrl)
			tt.mockSetup(mockSvc)

			handler := NewUsersHandler(mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rr.Body.Bytes())
			}
		})
	}
}
