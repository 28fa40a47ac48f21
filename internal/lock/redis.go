package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/relief-anchor/internal/config"
)

// RedisLocker рекомендательная блокировка в redis через SET NX.
type RedisLocker struct {
	Db  *redis.Client
	ttl time.Duration
}

// InitServer подключается к redis и возвращает блокировщик.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*RedisLocker, error) {
	const op = "lock.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisLocker{Db: db, ttl: cfg.LockTTL}, nil
}

// Acquire захватывает ключ через SET NX, повторяя попытки до отмены контекста.
// TTL ограничивает время жизни блокировки на случай упавшего держателя.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	const op = "lock.Acquire"
	token := uuid.New().String()

	for {
		ok, err := l.Db.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(25 * time.Millisecond):
		}
	}

	release := func() {
		_ = releaseScript.Run(context.Background(), l.Db, []string{key}, token).Err()
	}
	return release, nil
}

// releaseScript снимает только собственную блокировку: ключ мог протухнуть
// по TTL и достаться другому держателю. Сравнение и удаление выполняются
// одной командой, раздельные GET и DEL могли бы снять чужую блокировку.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)
