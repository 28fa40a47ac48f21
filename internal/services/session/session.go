// Package session отслеживает активный профиль устройства. Указатель на
// активного владельца хранится в том же хранилище, что и данные, поэтому
// переживает перезапуск приложения.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/relief-anchor/internal/lib/keyspace"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
	"github.com/magabrotheeeer/relief-anchor/internal/storage"
)

// ErrNoActiveSession возвращается при обращении к данным без активного
// профиля. Это нарушение предусловия вызывающим кодом: молча подставить
// пространство имён здесь нельзя, это риск утечки данных между профилями.
var ErrNoActiveSession = errors.New("no active session")

// ErrInvalidOwner возвращается при попытке входа с пустым идентификатором.
var ErrInvalidOwner = errors.New("invalid owner id")

// Entitlements описывает интерфейс хранилища записей о правах.
type Entitlements interface {
	GetRecord(ctx context.Context, ownerID string) (*models.EntitlementRecord, error)
}

// Service управление активным профилем.
type Service struct {
	store        storage.Store
	entitlements Entitlements
	log          *slog.Logger
}

// New создает новый Service.
func New(store storage.Store, entitlements Entitlements, log *slog.Logger) *Service {
	return &Service{
		store:        store,
		entitlements: entitlements,
		log:          log,
	}
}

// Login делает профиль активным и немедленно инициализирует его запись:
// свежий профиль получает дефолты, залежавшийся — самовосстанавливается
// до того, как его прочитает любой другой компонент.
func (s *Service) Login(ctx context.Context, ownerID string) (*models.EntitlementRecord, error) {
	const op = "session.Login"

	owner := keyspace.Normalize(ownerID)
	if owner == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidOwner)
	}

	rec, err := s.entitlements.GetRecord(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Put(ctx, keyspace.SessionKey, owner); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile logged in", slog.String("owner", owner))
	return rec, nil
}

// Logout снимает активный профиль. Данные профиля не трогаются.
func (s *Service) Logout(ctx context.Context) error {
	const op = "session.Logout"

	if err := s.store.Delete(ctx, keyspace.SessionKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile logged out")
	return nil
}

// ActiveOwner возвращает владельца активного профиля
// или ErrNoActiveSession, если никто не вошёл.
func (s *Service) ActiveOwner(ctx context.Context) (string, error) {
	const op = "session.ActiveOwner"

	owner, found, err := s.store.Get(ctx, keyspace.SessionKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !found || owner == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoActiveSession)
	}
	return owner, nil
}

// IsActive сообщает, есть ли активный профиль.
func (s *Service) IsActive(ctx context.Context) (bool, error) {
	_, err := s.ActiveOwner(ctx)
	if errors.Is(err, ErrNoActiveSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
