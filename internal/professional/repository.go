package professional

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const professionalColumns = "id, email, password_hash, display_name, phone, avatar_path, avatar_thumbnail_path, is_active, created_at, last_login_at"

type Repository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id string) (*Professional, error)
	GetByEmail(ctx context.Context, email string) (*Professional, error)
	UpdateProfile(ctx context.Context, p *Professional) error
	UpdateAvatar(ctx context.Context, id string, avatarPath, thumbnailPath *string) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanProfessional(row pgx.Row, p *Professional) error {
	return row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.Phone,
		&p.AvatarPath, &p.AvatarThumbnailPath, &p.IsActive, &p.CreatedAt, &p.LastLoginAt,
	)
}

func (r *pgxRepository) Create(ctx context.Context, p *Professional) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.professionals").
		Columns("email", "password_hash", "display_name", "phone", "is_active").
		Values(p.Email, p.PasswordHash, p.DisplayName, p.Phone, p.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create professional query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create professional failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Professional, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Professional, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *pgxRepository) getBy(ctx context.Context, cond squirrel.Eq) (*Professional, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(professionalColumns).
		From("public.professionals").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get professional query failed: %w", err)
	}

	var p Professional
	if err := scanProfessional(r.pool.QueryRow(ctx, query, args...), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get professional failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) UpdateProfile(ctx context.Context, p *Professional) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.professionals").
		Set("display_name", p.DisplayName).
		Set("phone", p.Phone).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update professional query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update professional failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateAvatar(ctx context.Context, id string, avatarPath, thumbnailPath *string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.professionals").
		Set("avatar_path", avatarPath).
		Set("avatar_thumbnail_path", thumbnailPath).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update avatar query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update avatar failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.professionals").
		Set("last_login_at", t).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	return nil
}
