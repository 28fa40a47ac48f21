// Package entitlement реализует хранилище подписанной записи о правах
// профиля: создание по умолчанию, проверку целостности, снятие истёкшего
// премиума и суточный сброс счётчика сообщений.
//
// Порядок проверок фиксирован: сверка сигнатуры → истечение премиума →
// сброс счётчика → каждое изменение от вызывающего. Подделанный флаг премиума
// нельзя протащить мимо проверки истечения обновлением в том же вызове.
// Испорченная запись никогда не повышается в правах — только понижается.
package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/checksum"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/keyspace"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/lock"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
	"github.com/magabrotheeeer/relief-anchor/internal/storage"
)

// FreeDailyMessageLimit лимит сообщений бесплатного тарифа за календарный день.
const FreeDailyMessageLimit = 5

// ErrDailyLimitReached возвращается, когда бесплатный лимит сообщений исчерпан.
var ErrDailyLimitReached = errors.New("daily message limit reached")

// ErrEmptyOwner возвращается при вызове с пустым идентификатором владельца.
// Это ошибка вызывающего кода, а не данных.
var ErrEmptyOwner = errors.New("empty owner id")

// RepairKind вид тихого авторемонта записи.
type RepairKind string

// Виды авторемонта.
const (
	RepairTamper       RepairKind = "tamper"        // сигнатура не сошлась, права сняты
	RepairExpired      RepairKind = "expired"       // окно премиума истекло
	RepairCounterReset RepairKind = "counter_reset" // наступил новый день, счётчик обнулён
	RepairRecreated    RepairKind = "recreated"     // байты не распарсились, запись пересоздана
)

// RepairEvent событие авторемонта. Наружу как ошибка не поднимается,
// но хук даёт вызывающему и тестам возможность его увидеть.
type RepairEvent struct {
	OwnerID string
	Kind    RepairKind
}

// Service бизнес-логика записи о правах.
type Service struct {
	store    storage.Store
	locker   lock.Locker
	clock    caldate.Clock
	log      *slog.Logger
	onRepair func(RepairEvent)
}

// New создает новый Service. onRepair может быть nil.
func New(store storage.Store, locker lock.Locker, clock caldate.Clock, log *slog.Logger, onRepair func(RepairEvent)) *Service {
	return &Service{
		store:    store,
		locker:   locker,
		clock:    clock,
		log:      log,
		onRepair: onRepair,
	}
}

// GetRecord возвращает проверенную запись владельца. Отсутствующая или
// нечитаемая запись пересоздаётся с дефолтами бесплатного тарифа; запись
// с неверной сигнатурой понижается до бесплатной и сразу возвращается.
func (s *Service) GetRecord(ctx context.Context, ownerID string) (*models.EntitlementRecord, error) {
	const op = "entitlement.GetRecord"

	owner := keyspace.Normalize(ownerID)
	if owner == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOwner)
	}

	release, err := s.locker.Acquire(ctx, lockKey(owner))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer release()

	rec, err := s.loadVerified(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// UpdateRecord накладывает частичное обновление на проверенную запись.
// Сначала всегда отрабатывают проверки целостности, истечения и сброса,
// затем применяется обновление и сигнатура пересчитывается безусловно.
func (s *Service) UpdateRecord(ctx context.Context, ownerID string, update models.RecordUpdate) (*models.EntitlementRecord, error) {
	const op = "entitlement.UpdateRecord"

	owner := keyspace.Normalize(ownerID)
	if owner == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOwner)
	}

	release, err := s.locker.Acquire(ctx, lockKey(owner))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer release()

	rec, err := s.loadVerified(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	merge(rec, update)

	if err := s.persist(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("record updated", slog.String("owner", owner))
	return rec, nil
}

// CheckAndCountMessage проверяет право на отправку сообщения компаньону.
// Премиум не считается; бесплатный тариф увеличивает суточный счётчик
// и получает ErrDailyLimitReached, когда лимит исчерпан.
func (s *Service) CheckAndCountMessage(ctx context.Context, ownerID string) error {
	const op = "entitlement.CheckAndCountMessage"

	owner := keyspace.Normalize(ownerID)
	if owner == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyOwner)
	}

	release, err := s.locker.Acquire(ctx, lockKey(owner))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer release()

	rec, err := s.loadVerified(ctx, owner)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rec.IsPremium {
		return nil
	}
	if rec.MessageCount >= FreeDailyMessageLimit {
		return fmt.Errorf("%s: %w", op, ErrDailyLimitReached)
	}

	rec.MessageCount++
	if err := s.persist(ctx, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// loadVerified загружает запись и прогоняет проверки в фиксированном порядке.
// Владелец уже нормализован, блокировка уже захвачена.
func (s *Service) loadVerified(ctx context.Context, owner string) (*models.EntitlementRecord, error) {
	keys := keyspace.Derive(owner)
	today := caldate.Today(s.clock)

	raw, found, err := s.store.Get(ctx, keys.User)
	if err != nil {
		return nil, err
	}
	if !found {
		rec := s.defaultRecord(owner, today)
		if err := s.persist(ctx, rec); err != nil {
			return nil, err
		}
		s.log.Info("created default record", slog.String("owner", owner))
		return rec, nil
	}

	var rec models.EntitlementRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		// Испорченные байты — не фатально: запись считается отсутствующей.
		s.log.Error("failed to decode stored record", slog.String("owner", owner), sl.Err(err))
		s.repair(owner, RepairRecreated)
		fresh := s.defaultRecord(owner, today)
		if err := s.persist(ctx, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	// Шаг 1: целостность. Запись чужого владельца в этом пространстве имён
	// не заслуживает доверия наравне с правленой.
	if rec.Signature != signatureOf(&rec) || rec.OwnerID != owner {
		rec.OwnerID = owner
		stripPremium(&rec)
		if err := s.persist(ctx, &rec); err != nil {
			return nil, err
		}
		s.repair(owner, RepairTamper)
		// Дальнейшие проверки в этом вызове пропускаются.
		return &rec, nil
	}

	changed := false

	// Шаг 2: истечение премиума.
	if rec.IsPremium {
		until := checksum.Canon(rec.PremiumUntil)
		if !caldate.Valid(until) || caldate.Before(until, today) {
			stripPremium(&rec)
			changed = true
			s.repair(owner, RepairExpired)
		}
	}

	// Шаг 3: суточный счётчик.
	if rec.LastCountedDate != today {
		rec.MessageCount = 0
		rec.LastCountedDate = today
		changed = true
		s.repair(owner, RepairCounterReset)
	}

	if changed {
		if err := s.persist(ctx, &rec); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

// persist пересчитывает сигнатуру и сохраняет запись. Единственная точка
// записи: сигнатура не может разойтись с содержимым.
func (s *Service) persist(ctx context.Context, rec *models.EntitlementRecord) error {
	rec.Signature = signatureOf(rec)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, keyspace.Derive(rec.OwnerID).User, string(data))
}

func (s *Service) defaultRecord(owner, today string) *models.EntitlementRecord {
	return &models.EntitlementRecord{
		OwnerID:         owner,
		Region:          models.RegionGlobal,
		IsPremium:       false,
		MessageCount:    0,
		LastCountedDate: today,
	}
}

func (s *Service) repair(owner string, kind RepairKind) {
	s.log.Warn("record repaired", slog.String("owner", owner), slog.String("kind", string(kind)))
	if s.onRepair != nil {
		s.onRepair(RepairEvent{OwnerID: owner, Kind: kind})
	}
}

// signatureOf считает контрольную сумму критичных полей записи.
// Порядок полей фиксирован, отсутствующие значения канонизируются.
func signatureOf(rec *models.EntitlementRecord) string {
	return checksum.Sign(
		rec.OwnerID,
		checksum.CanonBool(rec.IsPremium),
		checksum.Canon(rec.PremiumUntil),
		string(rec.Region),
		checksum.Canon(rec.PaymentReference),
		canonPlan(rec.PlanType),
	)
}

func canonPlan(p *models.PlanType) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func stripPremium(rec *models.EntitlementRecord) {
	rec.IsPremium = false
	rec.PremiumUntil = nil
	rec.PlanType = nil
	rec.PaymentReference = nil
}

func merge(rec *models.EntitlementRecord, update models.RecordUpdate) {
	if update.Region != nil {
		rec.Region = *update.Region
	}
	if update.IsPremium != nil {
		if *update.IsPremium {
			rec.IsPremium = true
		} else {
			stripPremium(rec)
		}
	}
	if update.PremiumUntil != nil {
		rec.PremiumUntil = update.PremiumUntil
	}
	if update.PlanType != nil {
		rec.PlanType = update.PlanType
	}
	if update.PaymentReference != nil {
		rec.PaymentReference = update.PaymentReference
	}
	if update.MessageCount != nil {
		rec.MessageCount = *update.MessageCount
	}
	if update.LastCountedDate != nil {
		rec.LastCountedDate = *update.LastCountedDate
	}
}

func lockKey(owner string) string {
	return "relief_anchor_lock:" + owner
}
