package confirm

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// MockService реализует интерфейс confirm.Service
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

func TestConfirmHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clock := caldate.FixedClock{Time: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

	tests := []struct {
		name           string
		body           string
		owner          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "месячный план даёт месяц премиума",
			body:  `{"paymentId":"pay_123","plan":"MONTHLY"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("UpdateRecord", mock.Anything, "user@example.com",
					mock.MatchedBy(func(u models.RecordUpdate) bool {
						return u.IsPremium != nil && *u.IsPremium &&
							u.PremiumUntil != nil && *u.PremiumUntil == "2025-07-15" &&
							u.PlanType != nil && *u.PlanType == models.PlanMonthly &&
							u.PaymentReference != nil && *u.PaymentReference == "pay_123"
					})).
					Return(&models.EntitlementRecord{OwnerID: "user@example.com", IsPremium: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isPremium":true`,
		},
		{
			name:  "годовой план даёт год премиума",
			body:  `{"paymentId":"pay_456","plan":"YEARLY"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("UpdateRecord", mock.Anything, "user@example.com",
					mock.MatchedBy(func(u models.RecordUpdate) bool {
						return u.PremiumUntil != nil && *u.PremiumUntil == "2026-06-15"
					})).
					Return(&models.EntitlementRecord{OwnerID: "user@example.com", IsPremium: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isPremium":true`,
		},
		{
			name:           "неизвестный план отклоняется валидацией",
			body:           `{"paymentId":"pay_789","plan":"WEEKLY"}`,
			owner:          "user@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "без идентификатора платежа",
			body:           `{"plan":"MONTHLY"}`,
			owner:          "user@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "без владельца в контексте",
			body:           `{"paymentId":"pay_123","plan":"MONTHLY"}`,
			owner:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, clock)

			req := httptest.NewRequest(http.MethodPost, "/payment/confirm", strings.NewReader(tt.body))
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
