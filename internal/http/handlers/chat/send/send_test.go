package send

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
	"github.com/magabrotheeeer/relief-anchor/internal/services/entitlement"
)

// MockService реализует интерфейс send.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) SendMessage(ctx context.Context, ownerID, text string) (*models.ChatMessage, error) {
	args := m.Called(ctx, ownerID, text)
	if res := args.Get(0); res != nil {
		return res.(*models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSendHandler(t *testing.T) {
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
			name:  "успешный ответ компаньона",
			body:  `{"message":"I feel anxious today"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("SendMessage", mock.Anything, "user@example.com", "I feel anxious today").
					Return(&models.ChatMessage{Role: models.ChatRoleModel, Text: "I hear you."}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"role":"model"`,
		},
		{
			name:  "исчерпан суточный лимит",
			body:  `{"message":"one more"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("SendMessage", mock.Anything, "user@example.com", "one more").
					Return(nil, entitlement.ErrDailyLimitReached)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `"error":"daily message limit reached"`,
		},
		{
			name:           "пустое сообщение отклоняется валидацией",
			body:           `{"message":""}`,
			owner:          "user@example.com",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "без владельца в контексте",
			body:           `{"message":"hello"}`,
			owner:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:  "ошибка внешнего сервиса",
			body:  `{"message":"hello"}`,
			owner: "user@example.com",
			setupMock: func(m *MockService) {
				m.On("SendMessage", mock.Anything, "user@example.com", "hello").
					Return(nil, errors.New("backend down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not send message"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tt.body))
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
