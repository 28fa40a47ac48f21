package redeem

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/magabrotheeeer/relief-anchor/internal/services/recovery"
)

// MockService реализует интерфейс redeem.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Redeem(ctx context.Context, tokenText, activeOwnerID string) (*recovery.Redemption, error) {
	args := m.Called(ctx, tokenText, activeOwnerID)
	if res := args.Get(0); res != nil {
		return res.(*recovery.Redemption), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRedeemHandler(t *testing.T) {
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
			name:  "успешное восстановление на своём профиле",
			body:  `{"token":"dXNlcnxkYXRlfHBsYW58c2ln"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, "dXNlcnxkYXRlfHBsYW58c2ln", "user@example.com").
					Return(&recovery.Redemption{
						Record:    &models.EntitlementRecord{OwnerID: "user@example.com", IsPremium: true},
						MintedFor: "user@example.com",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"cross_profile":false`,
		},
		{
			name:  "кросс-профильный перенос принимается",
			body:  `{"token":"dXNlcnxkYXRlfHBsYW58c2ln"}`,
			owner: "other@example.com",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, "dXNlcnxkYXRlfHBsYW58c2ln", "other@example.com").
					Return(&recovery.Redemption{
						Record:       &models.EntitlementRecord{OwnerID: "other@example.com", IsPremium: true},
						MintedFor:    "user@example.com",
						CrossProfile: true,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"cross_profile":true`,
		},
		{
			name:  "повреждённый токен",
			body:  `{"token":"garbage"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, "garbage", "user@example.com").
					Return(nil, recovery.ErrMalformedToken)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"recovery token is malformed"`,
		},
		{
			name:  "подделанная сигнатура",
			body:  `{"token":"forged"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, "forged", "user@example.com").
					Return(nil, recovery.ErrBadSignature)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"recovery token signature mismatch"`,
		},
		{
			name:  "истёкший токен называет дату истечения",
			body:  `{"token":"old"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, "old", "user@example.com").
					Return(nil, fmt.Errorf("recovery.Redeem: %w", &recovery.ExpiredTokenError{Until: "2030-01-01"}))
			},
			expectedStatus: http.StatusGone,
			expectedBody:   `"error":"recovery token expired on 2030-01-01"`,
		},
		{
			name:           "пустой токен отклоняется валидацией",
			body:           `{"token":""}`,
			owner:          "user@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:  "внутренняя ошибка сервиса",
			body:  `{"token":"dXNlcnxkYXRlfHBsYW58c2ln"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, "dXNlcnxkYXRlfHBsYW58c2ln", "user@example.com").
					Return(nil, errors.New("storage down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not redeem recovery token"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/user/restore", strings.NewReader(tt.body))
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
