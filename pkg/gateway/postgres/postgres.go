// Пакет postgres реализует хранилище ключ-значение
// поверх таблицы Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rtemka/menu/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres хранилище ключ-значение в таблице table.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// New подключается к БД и создает таблицу, если ее нет.
func New(ctx context.Context, connstr, table string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connstr)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	p := Postgres{pool: pool, table: pgx.Identifier{table}.Sanitize()}
	if _, err := pool.Exec(ctx, fmt.Sprintf(schema, p.table)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create table %s: %w", p.table, err)
	}
	return &p, nil
}

// Load возвращает значение по ключу или domain.ErrNotFound.
func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, p.table),
		key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return value, err
}

// Save записывает значение по ключу.
func (p *Postgres) Save(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		p.table),
		key, value,
	)
	return err
}

// Close закрывает пул соединений.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
