// Package storage определяет контракт хранилища приложения: плоское
// key-value хранилище непрозрачных текстовых блобов. Весь смысл данных
// (подписи, счётчики, списки) живёт уровнем выше — хранилище не знает,
// что именно оно хранит.
package storage

import "context"

// Store контракт key-value хранилища блобов. Реализации: файл SQLite на
// устройстве (по умолчанию), Postgres для self-hosted развёртываний и
// память для тестов.
type Store interface {
	// Get возвращает значение по ключу. Второй результат false, если ключа нет.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put сохраняет значение по ключу, перезаписывая существующее.
	Put(ctx context.Context, key, value string) error
	// Delete удаляет ключ. Удаление отсутствующего ключа — не ошибка.
	Delete(ctx context.Context, key string) error
}
