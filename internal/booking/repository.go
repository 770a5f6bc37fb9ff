package booking

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

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// UpdateStatus moves a booking from one status to another. It fails with
	// ErrInvalidTransition when the stored status is no longer `from`.
	UpdateStatus(ctx context.Context, b *Booking, from Status) error
	// ListOverlapping returns every booking of the given properties whose stay overlaps [from, to).
	ListOverlapping(ctx context.Context, propertyIDs []string, from, to availability.Date) ([]*Booking, error)

	availability.ReservationSource
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const constraintNoOverlap = "bookings_no_overlap"

var selectColumns = []string{
	"b.id", "b.property_id", "p.title", "p.host_id", "b.guest_id", "COALESCE(u.display_name, u.email)",
	"b.check_in", "b.check_out", "b.status", "b.guests", "b.total_price", "b.created_at", "b.updated_at",
}

func (r *pgxRepository) baseSelect(extra ...string) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(append(append([]string{}, selectColumns...), extra...)...).
		From("public.bookings b").
		Join("public.properties p ON b.property_id = p.id").
		Join("public.users u ON b.guest_id = u.id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var (
		b                 Booking
		checkIn, checkOut time.Time
		status            string
	)
	dest := []any{
		&b.ID, &b.PropertyID, &b.PropertyTitle, &b.HostID, &b.GuestID, &b.GuestName,
		&checkIn, &checkOut, &status, &b.Guests, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	// pgx decodes DATE as UTC midnight.
	b.CheckIn = availability.DateOf(checkIn.UTC())
	b.CheckOut = availability.DateOf(checkOut.UTC())
	b.Status = Status(status)
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("property_id", "guest_id", "check_in", "check_out", "status", "guests", "total_price").
		Values(b.PropertyID, b.GuestID, b.CheckIn.Time(), b.CheckOut.Time(), string(b.Status), b.Guests, b.TotalPrice).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgerrcode.ExclusionViolation && pgErr.ConstraintName == constraintNoOverlap:
				return ErrDateConflict
			case pgErr.Code == pgerrcode.CheckViolation:
				return ErrZeroLength
			case pgErr.Code == pgerrcode.ForeignKeyViolation:
				return ErrPropertyNotFound
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := r.baseSelect("count(*) OVER() AS total_count")

	if filter.GuestID != "" {
		query = query.Where(squirrel.Eq{"b.guest_id": filter.GuestID})
	}
	if filter.HostID != "" {
		query = query.Where(squirrel.Eq{"p.host_id": filter.HostID})
	}
	if filter.PropertyID != "" {
		query = query.Where(squirrel.Eq{"b.property_id": filter.PropertyID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": string(filter.Status)})
	}
	// Half-open overlap with the requested window.
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"b.check_out": filter.From.Time()})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"b.check_in": filter.To.Time()})
	}

	// SortBy is whitelisted by the handler binding.
	orderBy := "b.check_in"
	if filter.SortBy != "" {
		orderBy = "b." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "b.id")

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
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking, from Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(b.Status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "status": string(from)}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either deleted or changed by a concurrent request.
			return ErrInvalidTransition
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListOverlapping(ctx context.Context, propertyIDs []string, from, to availability.Date) ([]*Booking, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"b.property_id": propertyIDs}).
		Where(squirrel.Lt{"b.check_in": to.Time()}).
		Where(squirrel.Gt{"b.check_out": from.Time()}).
		OrderBy("b.check_in", "b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlapping bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overlapping bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

// Reservations implements availability.ReservationSource.
func (r *pgxRepository) Reservations(ctx context.Context, propertyID string, from, to availability.Date) ([]availability.Reservation, error) {
	const query = `
		SELECT id, check_in, check_out, status
		FROM public.bookings
		WHERE property_id = $1 AND status <> 'cancelled' AND check_in < $3 AND check_out > $2
		ORDER BY check_in
	`
	rows, err := r.pool.Query(ctx, query, propertyID, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var out []availability.Reservation
	for rows.Next() {
		var (
			id                string
			checkIn, checkOut time.Time
			status            string
		)
		if err := rows.Scan(&id, &checkIn, &checkOut, &status); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		out = append(out, availability.Reservation{
			ID:       id,
			CheckIn:  availability.DateOf(checkIn.UTC()),
			CheckOut: availability.DateOf(checkOut.UTC()),
			Hold:     Status(status).Hold(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return out, nil
}
