package timeslot

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

const slotColumns = "id, professional_id, slot_date, start_time::text, end_time::text, is_available, service_type_id, created_at, updated_at"

type Repository interface {
	Create(ctx context.Context, slot *TimeSlot) error
	GetByID(ctx context.Context, id string) (*TimeSlot, error)
	ListByDate(ctx context.Context, professionalID string, date time.Time) ([]*TimeSlot, error)
	ListAvailable(ctx context.Context, filter AvailabilityFilter) ([]*TimeSlot, error)

	// Reserve flips availability to false only when the slot is currently
	// available, so two concurrent reservations cannot both succeed.
	// Returns ErrAlreadyReserved when the slot exists but is taken.
	Reserve(ctx context.Context, id string) (*TimeSlot, error)

	// Release flips availability back to true. Releasing an already
	// available slot is a no-op, which makes retries safe.
	Release(ctx context.Context, id string) (*TimeSlot, error)

	// Generate delegates bulk slot creation to the generate_time_slots SQL
	// function and returns the number of slots created.
	Generate(ctx context.Context, professionalID string, date time.Time, startTime, endTime string, durationMinutes int, serviceTypeID *string) (int, error)

	// HasOverlap reports whether any slot of the professional on the given
	// date intersects the [start, end) window.
	HasOverlap(ctx context.Context, professionalID string, date time.Time, startTime, endTime string) (bool, error)

	Delete(ctx context.Context, id string) error
	DeleteByDate(ctx context.Context, professionalID string, date time.Time) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanSlot(row pgx.Row, s *TimeSlot) error {
	return row.Scan(
		&s.ID, &s.ProfessionalID, &s.SlotDate, &s.StartTime, &s.EndTime,
		&s.IsAvailable, &s.ServiceTypeID, &s.CreatedAt, &s.UpdatedAt,
	)
}

func (r *pgxRepository) Create(ctx context.Context, slot *TimeSlot) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.time_slots").
		Columns("professional_id", "slot_date", "start_time", "end_time", "is_available", "service_type_id").
		Values(slot.ProfessionalID, slot.SlotDate, slot.StartTime, slot.EndTime, slot.IsAvailable, slot.ServiceTypeID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create time slot query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrOverlap
		}
		return fmt.Errorf("create time slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM public.time_slots WHERE id = $1", slotColumns)

	var s TimeSlot
	if err := scanSlot(r.pool.QueryRow(ctx, query, id), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get time slot failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) ListByDate(ctx context.Context, professionalID string, date time.Time) ([]*TimeSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(slotColumns).
		From("public.time_slots").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"slot_date": date}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list time slots query failed: %w", err)
	}

	return r.querySlots(ctx, sql, args)
}

func (r *pgxRepository) ListAvailable(ctx context.Context, filter AvailabilityFilter) ([]*TimeSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(slotColumns).
		From("public.time_slots").
		Where(squirrel.Eq{"professional_id": filter.ProfessionalID}).
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.GtOrEq{"slot_date": filter.From}).
		Where(squirrel.LtOrEq{"slot_date": filter.To}).
		OrderBy("slot_date ASC", "start_time ASC")

	// Untyped slots can host any service type.
	if filter.ServiceTypeID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Or{
			squirrel.Eq{"service_type_id": nil},
			squirrel.Eq{"service_type_id": filter.ServiceTypeID},
		})
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list available slots query failed: %w", err)
	}

	return r.querySlots(ctx, sql, args)
}

func (r *pgxRepository) querySlots(ctx context.Context, sql string, args []any) ([]*TimeSlot, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list time slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*TimeSlot
	for rows.Next() {
		var s TimeSlot
		if err := scanSlot(rows, &s); err != nil {
			return nil, fmt.Errorf("scan time slot failed: %w", err)
		}
		slots = append(slots, &s)
	}

	return slots, nil
}

func (r *pgxRepository) Reserve(ctx context.Context, id string) (*TimeSlot, error) {
	query := fmt.Sprintf(`
		UPDATE public.time_slots
		SET is_available = false, updated_at = now()
		WHERE id = $1 AND is_available = true
		RETURNING %s`, slotColumns)

	var s TimeSlot
	err := scanSlot(r.pool.QueryRow(ctx, query, id), &s)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reserve time slot failed: %w", err)
	}

	// No row matched: either the slot is gone or someone took it first.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrAlreadyReserved
}

func (r *pgxRepository) Release(ctx context.Context, id string) (*TimeSlot, error) {
	query := fmt.Sprintf(`
		UPDATE public.time_slots
		SET is_available = true, updated_at = now()
		WHERE id = $1
		RETURNING %s`, slotColumns)

	var s TimeSlot
	if err := scanSlot(r.pool.QueryRow(ctx, query, id), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("release time slot failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) Generate(ctx context.Context, professionalID string, date time.Time, startTime, endTime string, durationMinutes int, serviceTypeID *string) (int, error) {
	// The generation logic (including overlap avoidance) lives in the SQL
	// function; this call only carries parameters and reads the count back.
	const query = `SELECT public.generate_time_slots($1, $2, $3::time, $4::time, $5, $6)`

	var count int
	err := r.pool.QueryRow(ctx, query,
		professionalID, date, startTime, endTime, durationMinutes, serviceTypeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("generate time slots failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, professionalID string, date time.Time, startTime, endTime string) (bool, error) {
	// Intervals are half-open: [start, end) touching slots do not overlap.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.time_slots").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"slot_date": date}).
		Where(squirrel.Expr("start_time < ?::time", endTime)).
		Where(squirrel.Expr("end_time > ?::time", startTime))

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete time slot query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse
		}
		return fmt.Errorf("delete time slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) DeleteByDate(ctx context.Context, professionalID string, date time.Time) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.time_slots").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"slot_date": date}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete time slots query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, ErrInUse
		}
		return 0, fmt.Errorf("delete time slots failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}
