package requests

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Lelo88/request-admin/internal/model"
)

// DB es el subconjunto de pgxpool.Pool que usa el repositorio.
// Permite testear con fakes sin levantar Postgres.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository accede a la tabla requests.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de pedidos.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const returningColumns = `id, name, COALESCE(type, ''), amount`

// Insert crea un pedido y devuelve el registro canónico con su id.
func (repository *Repository) Insert(ctx context.Context, request model.Request) (model.Request, error) {
	const query = `
		INSERT INTO requests (name, type, amount)
		VALUES ($1, $2, $3)
		RETURNING ` + returningColumns + `;
	`

	return scanRequest(repository.database.QueryRow(ctx, query, request.Name, nullableType(request.Type), request.Amount))
}

// Update reemplaza nombre, tipo y cantidad de un pedido existente.
func (repository *Repository) Update(ctx context.Context, request model.Request) (model.Request, error) {
	const query = `
		UPDATE requests
		SET name = $2, type = $3, amount = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + returningColumns + `;
	`

	saved, err := scanRequest(repository.database.QueryRow(ctx, query, *request.ID, request.Name, nullableType(request.Type), request.Amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Request{}, ErrorNotFound
	}
	return saved, err
}

// List devuelve una página ordenada por id, filtrando por nombre si query no está vacío.
func (repository *Repository) List(ctx context.Context, nameQuery string, limit, offset int) ([]model.Request, error) {
	const query = `
		SELECT ` + returningColumns + `
		FROM requests
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY id
		LIMIT $2 OFFSET $3;
	`

	rows, err := repository.database.Query(ctx, query, nameQuery, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Request, 0, limit)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Count devuelve el total de pedidos que cumplen el filtro.
func (repository *Repository) Count(ctx context.Context, nameQuery string) (int, error) {
	const query = `
		SELECT count(*)
		FROM requests
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%');
	`

	var total int
	if err := repository.database.QueryRow(ctx, query, nameQuery).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Delete elimina un pedido. Si no afectó filas devuelve ErrorNotFound.
func (repository *Repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM requests WHERE id = $1;`

	tag, err := repository.database.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// scanRequest mapea una fila al modelo. Acepta pgx.Row y pgx.Rows.
func scanRequest(row pgx.Row) (model.Request, error) {
	var (
		id      int64
		request model.Request
	)
	if err := row.Scan(&id, &request.Name, &request.Type, &request.Amount); err != nil {
		return model.Request{}, err
	}
	request.ID = &id
	return request, nil
}

// nullableType guarda el tipo vacío como NULL.
func nullableType(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
