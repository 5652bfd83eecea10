package customer

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"customer-map/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres. Ids come from
// gen_random_uuid(), coordinates are stored as numeric(10,7) and read back
// as their canonical text form.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const customerColumns = `id::text, name, street, number, phone, COALESCE(description, ''), lat::text, lng::text`

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE id::text = $1
LIMIT 1
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (name, street, number, phone, description, lat, lng)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6::numeric, $7::numeric)
RETURNING ` + customerColumns + `
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, c.Name, c.Street, c.Number, c.Phone, c.Description, c.Lat, c.Lng))
}

func (r *postgresRepo) Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	const q = `
UPDATE customers SET
    name        = COALESCE($2, name),
    street      = COALESCE($3, street),
    number      = COALESCE($4, number),
    phone       = COALESCE($5, phone),
    description = COALESCE($6, description),
    lat         = COALESCE($7::numeric, lat),
    lng         = COALESCE($8::numeric, lng)
WHERE id::text = $1
RETURNING ` + customerColumns + `
`
	return r.scanCustomer(r.pool.QueryRow(
		ctx,
		q,
		id,
		patch.Name,
		patch.Street,
		patch.Number,
		patch.Phone,
		patch.Description,
		patch.Lat,
		patch.Lng,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id::text = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepo) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE name ILIKE $1
   OR (street || ' ' || number) ILIKE $1
   OR COALESCE(description, '') ILIKE $1
   OR position($2 in phone) > 0
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q, likePattern(query), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) collect(rows pgx.Rows) ([]domain.Customer, error) {
	var out []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Street, &c.Number, &c.Phone, &c.Description, &c.Lat, &c.Lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("customer repo: scan error=%v", err)
		return nil, err
	}
	return &c, nil
}

// likePattern wraps the query in wildcards, escaping LIKE metacharacters so
// the match stays a plain substring test.
func likePattern(query string) string {
	repl := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + repl.Replace(query) + "%"
}
