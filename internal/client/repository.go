package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Upsert inserts the client or, when the email is already known,
	// refreshes the name and any newly supplied phone.
	Upsert(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Upsert(ctx context.Context, c *Client) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.clients").
		Columns("email", "name", "phone").
		Values(c.Email, c.Name, c.Phone).
		Suffix(`ON CONFLICT (email) DO UPDATE
			SET name = EXCLUDED.name,
			    phone = COALESCE(EXCLUDED.phone, clients.phone),
			    updated_at = now()
			RETURNING id, phone, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert client query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert client failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Client, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *pgxRepository) getBy(ctx context.Context, cond squirrel.Eq) (*Client, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "email", "name", "phone", "created_at", "updated_at").
		From("public.clients").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get client query failed: %w", err)
	}

	var c Client
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client failed: %w", err)
	}
	return &c, nil
}
