// Package lock реализует рекомендательную блокировку вокруг read-modify-write
// секции обновления записи. Эталонное поведение приложения — один писатель,
// и тогда достаточно блокировки в памяти процесса; если одно хранилище делят
// несколько экземпляров, используется блокировка в redis.
package lock

import (
	"context"
	"sync"
)

// Locker выдаёт блокировку по ключу. Release обязателен к вызову.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LocalLocker блокировка в памяти процесса, по мьютексу на ключ.
type LocalLocker struct {
	mu    sync.Mutex
	byKey map[string]*sync.Mutex
}

// NewLocalLocker создает локальную блокировку.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{byKey: make(map[string]*sync.Mutex)}
}

// Acquire захватывает мьютекс ключа.
func (l *LocalLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.byKey[key]
	if !ok {
		m = &sync.Mutex{}
		l.byKey[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
