package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ReassignSlot points the booking at a different time slot. Releasing
	// the old slot and reserving the new one is the caller's job.
	ReassignSlot(ctx context.Context, id string, newSlotID string) error

	// Stats counts a professional's non-cancelled bookings relative to now:
	// today's, the current month's, and upcoming ones.
	Stats(ctx context.Context, professionalID string, now time.Time) (*Stats, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// Slot and service type columns are coalesced because both references are
// nullable on the bookings table.
var bookingColumns = []string{
	"b.id", "b.professional_id",
	"b.service_type_id", "coalesce(st.name, '')", "coalesce(st.duration_minutes, 0)",
	"b.time_slot_id", "coalesce(ts.slot_date, '0001-01-01'::date)",
	"coalesce(ts.start_time::text, '')", "coalesce(ts.end_time::text, '')",
	"b.client_id", "b.patient_name", "b.patient_phone", "b.patient_email", "b.notes",
	"b.status", "b.created_at", "b.updated_at",
}

func scanBooking(row pgx.Row, b *Booking, total *int) error {
	dest := []any{
		&b.ID, &b.ProfessionalID,
		&b.ServiceTypeID, &b.ServiceTypeName, &b.DurationMinutes,
		&b.TimeSlotID, &b.SlotDate, &b.StartTime, &b.EndTime,
		&b.ClientID, &b.PatientName, &b.PatientPhone, &b.PatientEmail, &b.Notes,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}
	return row.Scan(dest...)
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"professional_id", "service_type_id", "time_slot_id", "client_id",
			"patient_name", "patient_phone", "patient_email", "notes", "status",
		).
		Values(
			b.ProfessionalID, b.ServiceTypeID, b.TimeSlotID, b.ClientID,
			b.PatientName, b.PatientPhone, b.PatientEmail, b.Notes, b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		LeftJoin("public.time_slots ts ON b.time_slot_id = ts.id").
		LeftJoin("public.service_types st ON b.service_type_id = st.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, args...), &b, nil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	columns := append(append([]string{}, bookingColumns...), "count(*) OVER() as total_count")
	query := psql.Select(columns...).
		From("public.bookings b").
		LeftJoin("public.time_slots ts ON b.time_slot_id = ts.id").
		LeftJoin("public.service_types st ON b.service_type_id = st.id")

	if filter.ProfessionalID != "" {
		query = query.Where(squirrel.Eq{"b.professional_id": filter.ProfessionalID})
	}
	if filter.ClientID != "" {
		query = query.Where(squirrel.Eq{"b.client_id": filter.ClientID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"ts.slot_date": filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"ts.slot_date": filter.DateTo})
	}

	query = query.OrderBy("b.created_at DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ReassignSlot(ctx context.Context, id string, newSlotID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("time_slot_id", newSlotID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reassign slot query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reassign slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Stats(ctx context.Context, professionalID string, now time.Time) (*Stats, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	nowClock := now.Format("15:04:05")

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select().
		Column(squirrel.Expr(
			"count(*) FILTER (WHERE ts.slot_date = ?)", today)).
		Column(squirrel.Expr(
			"count(*) FILTER (WHERE ts.slot_date >= ? AND ts.slot_date < ?)", monthStart, nextMonth)).
		Column(squirrel.Expr(
			"count(*) FILTER (WHERE ts.slot_date > ? OR (ts.slot_date = ? AND ts.start_time >= ?::time))",
			today, today, nowClock)).
		From("public.bookings b").
		LeftJoin("public.time_slots ts ON ts.id = b.time_slot_id").
		Where(squirrel.Eq{"b.professional_id": professionalID}).
		Where(squirrel.NotEq{"b.status": StatusCancelled}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking stats query failed: %w", err)
	}

	var stats Stats
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&stats.TodayBookings, &stats.MonthBookings, &stats.UpcomingBookings); err != nil {
		return nil, fmt.Errorf("booking stats failed: %w", err)
	}
	return &stats, nil
}
