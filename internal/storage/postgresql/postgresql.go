// Package postgresql реализует хранилище блобов поверх Postgres для
// self-hosted развёртываний, где одно хранилище делят несколько устройств.
package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Storage хранилище блобов в Postgres.
type Storage struct {
	db *pgx.Conn
}

// New подключается к базе и готовит схему.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	conn, err := pgx.Connect(context.Background(), storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := initializeSchema(conn); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: conn}, nil
}

func initializeSchema(conn *pgx.Conn) error {
	_, err := conn.Exec(context.Background(), `
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
	const op = "storage.postgresql.Get"

	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM blobs WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// Put сохраняет значение по ключу, перезаписывая существующее.
func (s *Storage) Put(ctx context.Context, key, value string) error {
	const op = "storage.postgresql.Put"

	query := `INSERT INTO blobs (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
			  ON CONFLICT(key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.postgresql.Delete"

	if _, err := s.db.Exec(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с базой.
func (s *Storage) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}
