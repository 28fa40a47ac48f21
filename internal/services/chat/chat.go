// Package chat реализует переписку с компаньоном Anya. Сам разговорный
// сервис — внешний непрозрачный коллаборатор "текст на вход, текст на выход";
// здесь живёт только обвязка: лимит бесплатного тарифа, история переписки
// и системная инструкция с телефоном доверия региона.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

const systemPromptTemplate = `You are Anya, a supportive, empathetic mental health companion for the ReliefAnchor app.
Your goal is to provide a safe space for users to express themselves.

Guidelines:
1. Be concise, warm, and non-judgmental.
2. Do NOT diagnose or offer medical advice.
3. Use 4-5 sentences max per response.
4. If the user mentions self-harm, suicide, or severe distress, immediately provide this helpline: %s at %s and urge them to seek professional help.
5. Speak in a calm, soothing tone.`

// Responder описывает интерфейс внешнего текстового сервиса.
type Responder interface {
	Respond(ctx context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error)
}

// Entitlements описывает методы записи о правах, нужные чату.
type Entitlements interface {
	GetRecord(ctx context.Context, ownerID string) (*models.EntitlementRecord, error)
	CheckAndCountMessage(ctx context.Context, ownerID string) error
}

// History описывает методы истории переписки.
type History interface {
	ChatHistory(ctx context.Context, ownerID string) ([]models.ChatMessage, error)
	AppendChat(ctx context.Context, ownerID, role, text string) (*models.ChatMessage, error)
}

// Service бизнес-логика переписки с компаньоном.
type Service struct {
	responder    Responder
	entitlements Entitlements
	history      History
	log          *slog.Logger
}

// New создает новый Service.
func New(responder Responder, entitlements Entitlements, history History, log *slog.Logger) *Service {
	return &Service{
		responder:    responder,
		entitlements: entitlements,
		history:      history,
		log:          log,
	}
}

// SendMessage проводит одно сообщение через лимит тарифа, историю и
// внешний сервис. Бесплатный тариф получает ErrDailyLimitReached из
// хранилища записей, когда суточный лимит исчерпан.
func (s *Service) SendMessage(ctx context.Context, ownerID, text string) (*models.ChatMessage, error) {
	const op = "chat.SendMessage"

	rec, err := s.entitlements.GetRecord(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.entitlements.CheckAndCountMessage(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	history, err := s.history.ChatHistory(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.history.AppendChat(ctx, ownerID, models.ChatRoleUser, text); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	helpline := models.HelplineFor(rec.Region)
	prompt := fmt.Sprintf(systemPromptTemplate, helpline.Name, helpline.Number)

	reply, err := s.responder.Respond(ctx, prompt, history, text)
	if err != nil {
		s.log.Error("companion backend failed", slog.String("owner", rec.OwnerID))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	message, err := s.history.AppendChat(ctx, ownerID, models.ChatRoleModel, reply)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return message, nil
}
