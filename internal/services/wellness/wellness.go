// Package wellness реализует дневники самочувствия профиля: журнал настроения,
// микродневник и историю переписки с компаньоном. Каждый список хранится
// отдельным текстовым блобом под своим ключом пространства имён владельца.
// Инвариантов целостности у этих данных нет: испорченный блоб читается как
// пустой список.
package wellness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/keyspace"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
	"github.com/magabrotheeeer/relief-anchor/internal/storage"
)

// ErrEmptyOwner возвращается при вызове с пустым идентификатором владельца.
var ErrEmptyOwner = errors.New("empty owner id")

// Service бизнес-логика дневников самочувствия.
type Service struct {
	store storage.Store
	clock caldate.Clock
	log   *slog.Logger
}

// New создает новый Service.
func New(store storage.Store, clock caldate.Clock, log *slog.Logger) *Service {
	return &Service{store: store, clock: clock, log: log}
}

// AddMood добавляет запись настроения в конец журнала.
func (s *Service) AddMood(ctx context.Context, ownerID string, score int, note string) (*models.MoodLog, error) {
	const op = "wellness.AddMood"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	moods, err := loadList[models.MoodLog](ctx, s.store, keys.Moods)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mood := models.MoodLog{
		ID:        uuid.New().String(),
		Timestamp: s.clock.Now().UnixMilli(),
		Score:     score,
		Note:      note,
	}
	moods = append(moods, mood)

	if err := saveList(ctx, s.store, keys.Moods, moods); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &mood, nil
}

// Moods возвращает журнал настроения в хронологическом порядке.
func (s *Service) Moods(ctx context.Context, ownerID string) ([]models.MoodLog, error) {
	const op = "wellness.Moods"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	moods, err := loadList[models.MoodLog](ctx, s.store, keys.Moods)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return moods, nil
}

// AddJournalEntry добавляет запись микродневника. Список хранится от новых к старым.
func (s *Service) AddJournalEntry(ctx context.Context, ownerID, text string) (*models.JournalEntry, error) {
	const op = "wellness.AddJournalEntry"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries, err := loadList[models.JournalEntry](ctx, s.store, keys.Journal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := models.JournalEntry{
		ID:        uuid.New().String(),
		Text:      text,
		Timestamp: s.clock.Now().UnixMilli(),
	}
	entries = append([]models.JournalEntry{entry}, entries...)

	if err := saveList(ctx, s.store, keys.Journal, entries); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}

// JournalEntries возвращает записи микродневника, новые первыми.
func (s *Service) JournalEntries(ctx context.Context, ownerID string) ([]models.JournalEntry, error) {
	const op = "wellness.JournalEntries"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	entries, err := loadList[models.JournalEntry](ctx, s.store, keys.Journal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// ChatHistory возвращает сохранённую переписку с компаньоном.
func (s *Service) ChatHistory(ctx context.Context, ownerID string) ([]models.ChatMessage, error) {
	const op = "wellness.ChatHistory"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	messages, err := loadList[models.ChatMessage](ctx, s.store, keys.Chat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return messages, nil
}

// AppendChat добавляет сообщение в историю переписки и возвращает его.
func (s *Service) AppendChat(ctx context.Context, ownerID, role, text string) (*models.ChatMessage, error) {
	const op = "wellness.AppendChat"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	messages, err := loadList[models.ChatMessage](ctx, s.store, keys.Chat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	message := models.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: s.clock.Now().UnixMilli(),
	}
	messages = append(messages, message)

	if err := saveList(ctx, s.store, keys.Chat, messages); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &message, nil
}

// ClearChat удаляет историю переписки.
func (s *Service) ClearChat(ctx context.Context, ownerID string) error {
	const op = "wellness.ClearChat"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Delete(ctx, keys.Chat); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearPrivateData стирает настроения, переписку и микродневник профиля.
// Запись о правах намеренно не трогается: оплаченный премиум переживает
// очистку личных данных.
func (s *Service) ClearPrivateData(ctx context.Context, ownerID string) error {
	const op = "wellness.ClearPrivateData"

	keys, err := ownerKeys(ownerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, key := range []string{keys.Moods, keys.Chat, keys.Journal} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	s.log.Info("private data cleared", slog.String("owner", keyspace.Normalize(ownerID)))
	return nil
}

func ownerKeys(ownerID string) (keyspace.Keys, error) {
	owner := keyspace.Normalize(ownerID)
	if owner == "" {
		return keyspace.Keys{}, ErrEmptyOwner
	}
	return keyspace.Derive(owner), nil
}

// loadList читает список из блоба. Отсутствующий или нечитаемый блоб —
// пустой список, не ошибка.
func loadList[T any](ctx context.Context, store storage.Store, key string) ([]T, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, nil
	}
	return list, nil
}

func saveList[T any](ctx context.Context, store storage.Store, key string, list []T) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return store.Put(ctx, key, string(data))
}
