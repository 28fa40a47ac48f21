package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateRecord(ctx context.Context, ownerID string, update models.RecordUpdate) (*models.EntitlementRecord, error) {
	args := m.Called(ctx, ownerID, update)
	if res := args.Get(0); res != nil {
		return res.(*models.EntitlementRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		owner          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "смена региона",
			body:  `{"region":"INDIA"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("UpdateRecord", mock.Anything, "user@example.com",
					mock.MatchedBy(func(u models.RecordUpdate) bool {
						return u.Region != nil && *u.Region == models.RegionIndia && u.IsPremium == nil
					})).
					Return(&models.EntitlementRecord{OwnerID: "user@example.com", Region: models.RegionIndia}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"region":"INDIA"`,
		},
		{
			name:  "отказ от премиума",
			body:  `{"cancel":true}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("UpdateRecord", mock.Anything, "user@example.com",
					mock.MatchedBy(func(u models.RecordUpdate) bool {
						return u.IsPremium != nil && !*u.IsPremium
					})).
					Return(&models.EntitlementRecord{OwnerID: "user@example.com", Region: models.RegionGlobal}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isPremium":false`,
		},
		{
			name:           "неизвестный регион отклоняется валидацией",
			body:           `{"region":"MARS"}`,
			owner:          "user@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "без владельца в контексте",
			body:           `{"region":"INDIA"}`,
			owner:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:  "ошибка сервиса",
			body:  `{"region":"INDIA"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("UpdateRecord", mock.Anything, "user@example.com", mock.Anything).
					Return(nil, errors.New("storage down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update user record"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPatch, "/user", strings.NewReader(tt.body))
			if tt.owner != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Owner, tt.owner))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
