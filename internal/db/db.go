package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// connectTimeout evita que el arranque quede colgado si la base no responde.
const connectTimeout = 5 * time.Second

// schema crea la tabla de pedidos si no existe. Las restricciones repiten
// las reglas de validación del modelo para que la base no acepte datos inválidos.
const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(50) NOT NULL CHECK (char_length(name) >= 3),
	type       VARCHAR(50) CHECK (type IS NULL OR char_length(type) >= 3),
	amount     INTEGER NOT NULL CHECK (amount >= 1),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_requests_name ON requests (lower(name));
`

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

// Executor es la parte del pool que usa EnsureSchema.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var (
	newPool  = pgxpool.New
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// NewPool crea un pool de conexiones a PostgreSQL y verifica que responda.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := newPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, err
	}

	return pool, nil
}

// EnsureSchema aplica el DDL de la tabla requests. Es idempotente.
func EnsureSchema(ctx context.Context, database Executor) error {
	if _, err := database.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure requests schema: %w", err)
	}
	return nil
}
