// Package sqlite реализует хранилище блобов поверх локального файла SQLite.
// Это хранилище "на устройстве" по умолчанию: один файл, без сервера.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // драйвер sqlite3
)

// Storage хранилище блобов в файле SQLite.
type Storage struct {
	DB *sql.DB
}

// New открывает (или создаёт) файл базы и готовит схему.
func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Один писатель за раз, см. модель конкурентности приложения.
	db.SetMaxOpenConns(1)

	if err := initializeSchema(db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

func initializeSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS blobs(
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create blobs table: %w", err)
	}
	return nil
}

// Get возвращает значение по ключу.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.sqlite.Get"

	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// Put сохраняет значение по ключу, перезаписывая существующее.
func (s *Storage) Put(ctx context.Context, key, value string) error {
	const op = "storage.sqlite.Put"

	query := `INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.DB.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.sqlite.Delete"

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает файл базы.
func (s *Storage) Close() error {
	return s.DB.Close()
}
