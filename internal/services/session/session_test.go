package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	"github.com/magabrotheeeer/relief-anchor/internal/lock"
	"github.com/magabrotheeeer/relief-anchor/internal/services/entitlement"
	"github.com/magabrotheeeer/relief-anchor/internal/services/session"
	"github.com/magabrotheeeer/relief-anchor/internal/storage"
)

func newService() (*session.Service, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := caldate.FixedClock{Time: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	entitlements := entitlement.New(store, lock.NewLocalLocker(), clock, logger, nil)
	return session.New(store, entitlements, logger), store
}

func TestLogin_InitializesRecordEagerly(t *testing.T) {
	service, store := newService()

	rec, err := service.Login(context.Background(), "A@X.Com")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", rec.OwnerID)
	assert.False(t, rec.IsPremium)

	// Запись профиля создана прямо на входе, до любых других обращений.
	_, found, err := store.Get(context.Background(), "relief_anchor_user:a@x.com")
	require.NoError(t, err)
	assert.True(t, found)

	owner, err := service.ActiveOwner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", owner)
}

func TestLogin_InvalidOwnerRejected(t *testing.T) {
	service, _ := newService()

	_, err := service.Login(context.Background(), "   ")
	require.ErrorIs(t, err, session.ErrInvalidOwner)
}

func TestActiveOwner_WithoutLogin(t *testing.T) {
	service, _ := newService()

	_, err := service.ActiveOwner(context.Background())
	require.ErrorIs(t, err, session.ErrNoActiveSession)

	active, err := service.IsActive(context.Background())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestLogout_ClearsSessionOnly(t *testing.T) {
	service, store := newService()

	_, err := service.Login(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background()))

	_, err = service.ActiveOwner(context.Background())
	require.ErrorIs(t, err, session.ErrNoActiveSession)

	// Данные профиля при выходе не удаляются.
	_, found, err := store.Get(context.Background(), "relief_anchor_user:a@x.com")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLogin_SessionSurvivesRestart(t *testing.T) {
	service, store := newService()

	_, err := service.Login(context.Background(), "a@x.com")
	require.NoError(t, err)

	// "Перезапуск": новый сервис поверх того же хранилища.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := caldate.FixedClock{Time: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	entitlements := entitlement.New(store, lock.NewLocalLocker(), clock, logger, nil)
	restarted := session.New(store, entitlements, logger)

	owner, err := restarted.ActiveOwner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", owner)
}
