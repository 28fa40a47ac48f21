// Package recovery реализует переносимый токен восстановления: самодостаточную
// строку, по которой оплаченный премиум можно перенести на другое устройство
// или профиль без какого-либо сервера.
//
// Токен — это base64 от "owner|premiumUntil|planType|signature", где
// signature считается тем же алгоритмом, что и сигнатура записи, но по
// другому каноническому кортежу. Токен никогда не хранится: каждый вызов
// Mint пересчитывает его из текущей проверенной записи.
package recovery

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/checksum"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/keyspace"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// Ошибки погашения токена. Ни одна из них не фатальна для приложения:
// все они превращаются в отказ с человекочитаемой причиной.
var (
	// ErrNotPremium запись не премиум или без даты истечения, токен не выдаётся.
	ErrNotPremium = errors.New("record is not premium")
	// ErrMalformedToken токен не декодируется или имеет неверную структуру.
	ErrMalformedToken = errors.New("malformed recovery token")
	// ErrBadSignature сигнатура токена не сходится: опечатка или правка.
	ErrBadSignature = errors.New("recovery token signature mismatch")
	// ErrExpiredToken премиум из токена уже истёк.
	ErrExpiredToken = errors.New("recovery token expired")
)

// ExpiredTokenError уточняет ErrExpiredToken датой истечения из клеймов
// токена: дата нужна вызывающему, чтобы назвать её в тексте отказа.
type ExpiredTokenError struct {
	Until string
}

func (e *ExpiredTokenError) Error() string {
	return fmt.Sprintf("recovery token expired: %s", e.Until)
}

// Unwrap сводит типизированную ошибку к сентинелу для errors.Is.
func (e *ExpiredTokenError) Unwrap() error { return ErrExpiredToken }

// tokenFieldCount количество полей сериализованного токена: три клейма и сигнатура.
const tokenFieldCount = 4

// tokenPrefix отличает канонический кортеж токена от кортежа записи
// при одинаковом алгоритме и соли.
const tokenPrefix = "recovery"

// Entitlements описывает интерфейс хранилища записей о правах.
type Entitlements interface {
	GetRecord(ctx context.Context, ownerID string) (*models.EntitlementRecord, error)
	UpdateRecord(ctx context.Context, ownerID string, update models.RecordUpdate) (*models.EntitlementRecord, error)
}

// Redemption результат успешного погашения токена.
type Redemption struct {
	Record       *models.EntitlementRecord // Обновлённая запись активного профиля
	MintedFor    string                    // Владелец, для которого токен был выписан
	CrossProfile bool                      // Токен погашен не тем профилем, что его выписал
}

// Service бизнес-логика токенов восстановления.
type Service struct {
	entitlements Entitlements
	clock        caldate.Clock
	log          *slog.Logger
}

// New создает новый Service.
func New(entitlements Entitlements, clock caldate.Clock, log *slog.Logger) *Service {
	return &Service{
		entitlements: entitlements,
		clock:        clock,
		log:          log,
	}
}

// Mint выписывает токен из текущей проверенной записи владельца.
// Для бесплатной записи или записи без даты истечения возвращает ErrNotPremium.
func (s *Service) Mint(ctx context.Context, ownerID string) (string, error) {
	const op = "recovery.Mint"

	rec, err := s.entitlements.GetRecord(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !rec.IsPremium || rec.PremiumUntil == nil {
		return "", fmt.Errorf("%s: %w", op, ErrNotPremium)
	}

	until := *rec.PremiumUntil
	plan := ""
	if rec.PlanType != nil {
		plan = string(*rec.PlanType)
	}

	signature := checksum.Sign(tokenPrefix, rec.OwnerID, until, plan)
	payload := strings.Join([]string{rec.OwnerID, until, plan, signature}, checksum.Delimiter)
	token := base64.StdEncoding.EncodeToString([]byte(payload))

	s.log.Info("recovery token minted",
		slog.String("owner", rec.OwnerID), sl.Masked("token", token))
	return token, nil
}

// Redeem декодирует и проверяет токен и переносит его премиум-поля на
// активный профиль. Погашение чужого токена разрешено: это сознательный
// перенос прав между профилями, а не ошибка.
func (s *Service) Redeem(ctx context.Context, tokenText, activeOwnerID string) (*Redemption, error) {
	const op = "recovery.Redeem"

	compact := strings.Join(strings.Fields(tokenText), "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}

	parts := strings.Split(string(decoded), checksum.Delimiter)
	if len(parts) != tokenFieldCount {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}
	owner, until, plan, signature := parts[0], parts[1], parts[2], parts[3]

	if checksum.Sign(tokenPrefix, owner, until, plan) != signature {
		return nil, fmt.Errorf("%s: %w", op, ErrBadSignature)
	}
	if !caldate.Valid(until) {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}
	if caldate.Before(until, caldate.Today(s.clock)) {
		return nil, fmt.Errorf("%s: %w", op, &ExpiredTokenError{Until: until})
	}

	update := models.RecordUpdate{
		IsPremium:    boolPtr(true),
		PremiumUntil: &until,
	}
	if plan != "" {
		planType := models.PlanType(plan)
		update.PlanType = &planType
	}

	rec, err := s.entitlements.UpdateRecord(ctx, activeOwnerID, update)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	crossProfile := keyspace.Normalize(owner) != rec.OwnerID
	if crossProfile {
		s.log.Warn("cross-profile restore",
			slog.String("minted_for", owner), slog.String("active", rec.OwnerID))
	}
	s.log.Info("recovery token redeemed", slog.String("owner", rec.OwnerID))

	return &Redemption{
		Record:       rec,
		MintedFor:    owner,
		CrossProfile: crossProfile,
	}, nil
}

func boolPtr(b bool) *bool { return &b }
