package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	jwtlib "github.com/magabrotheeeer/relief-anchor/internal/lib/jwt"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, ownerID string) (*models.EntitlementRecord, error) {
	args := m.Called(ctx, ownerID)
	if res := args.Get(0); res != nil {
		return res.(*models.EntitlementRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	maker := jwtlib.NewJWTMaker("test-secret", time.Hour)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход создаёт запись и выдаёт токен",
			body: `{"email":"user@example.com"}`,
			setupMock: func(m *MockService) {
				record := &models.EntitlementRecord{
					OwnerID: "user@example.com",
					Region:  models.RegionGlobal,
				}
				m.On("Login", mock.Anything, "user@example.com").Return(record, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ownerId":"user@example.com"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "почта не проходит валидацию",
			body:           `{"email":"not-an-email"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "ошибка сервиса сессий",
			body: `{"email":"user@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "user@example.com").Return(nil, errors.New("storage down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not open session"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, maker)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_TokenCarriesOwner(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	maker := jwtlib.NewJWTMaker("test-secret", time.Hour)

	mockService := new(MockService)
	mockService.On("Login", mock.Anything, "user@example.com").
		Return(&models.EntitlementRecord{OwnerID: "user@example.com"}, nil)

	handler := New(logger, mockService, maker)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"user@example.com"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"`)
}
