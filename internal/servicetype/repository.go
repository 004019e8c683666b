package servicetype

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, st *ServiceType) error
	GetByID(ctx context.Context, id string) (*ServiceType, error)
	List(ctx context.Context, filter Filter) ([]*ServiceType, error)
	Update(ctx context.Context, st *ServiceType) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, st *ServiceType) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.service_types").
		Columns("professional_id", "name", "duration_minutes", "description", "is_active").
		Values(st.ProfessionalID, st.Name, st.DurationMinutes, st.Description, st.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service type query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create service type failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ServiceType, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "professional_id", "name", "duration_minutes", "description", "is_active", "created_at", "updated_at",
	).
		From("public.service_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service type query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var st ServiceType
	if err := row.Scan(
		&st.ID, &st.ProfessionalID, &st.Name, &st.DurationMinutes, &st.Description, &st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service type failed: %w", err)
	}
	return &st, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*ServiceType, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(
		"id", "professional_id", "name", "duration_minutes", "description", "is_active", "created_at", "updated_at",
	).
		From("public.service_types").
		Where(squirrel.Eq{"professional_id": filter.ProfessionalID}).
		OrderBy("name ASC")

	if filter.ActiveOnly {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list service types query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list service types failed: %w", err)
	}
	defer rows.Close()

	var result []*ServiceType
	for rows.Next() {
		var st ServiceType
		if err := rows.Scan(
			&st.ID, &st.ProfessionalID, &st.Name, &st.DurationMinutes, &st.Description, &st.IsActive, &st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service type failed: %w", err)
		}
		result = append(result, &st)
	}

	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, st *ServiceType) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.service_types").
		Set("name", st.Name).
		Set("duration_minutes", st.DurationMinutes).
		Set("description", st.Description).
		Set("is_active", st.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": st.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update service type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.service_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete service type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse
		}
		return fmt.Errorf("delete service type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
