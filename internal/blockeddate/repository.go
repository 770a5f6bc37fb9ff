package blockeddate

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
)

type Repository interface {
	// Insert blocks every day in days, skipping days that are already blocked.
	// It returns the number of newly blocked days.
	Insert(ctx context.Context, propertyID string, days []availability.Date, reason *string) (int, error)
	// DeleteRange unblocks every day in [from, to).
	DeleteRange(ctx context.Context, propertyID string, from, to availability.Date) (int, error)
	List(ctx context.Context, propertyID string, from, to availability.Date) ([]*BlockedDate, error)

	availability.BlockedSource
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Insert(ctx context.Context, propertyID string, days []availability.Date, reason *string) (int, error) {
	if len(days) == 0 {
		return 0, nil
	}

	dates := make([]time.Time, len(days))
	for i, d := range days {
		dates[i] = d.Time()
	}

	const query = `
		INSERT INTO public.blocked_dates (property_id, date, reason)
		SELECT $1, d, $3 FROM unnest($2::date[]) AS d
		ON CONFLICT (property_id, date) DO NOTHING
	`
	ct, err := r.pool.Exec(ctx, query, propertyID, dates, reason)
	if err != nil {
		return 0, fmt.Errorf("block dates failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgxRepository) DeleteRange(ctx context.Context, propertyID string, from, to availability.Date) (int, error) {
	const query = `
		DELETE FROM public.blocked_dates
		WHERE property_id = $1 AND date >= $2 AND date < $3
	`
	ct, err := r.pool.Exec(ctx, query, propertyID, from.Time(), to.Time())
	if err != nil {
		return 0, fmt.Errorf("unblock dates failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgxRepository) List(ctx context.Context, propertyID string, from, to availability.Date) ([]*BlockedDate, error) {
	const query = `
		SELECT id, property_id, date, reason, created_at
		FROM public.blocked_dates
		WHERE property_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`
	rows, err := r.pool.Query(ctx, query, propertyID, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("list blocked dates failed: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*BlockedDate, error) {
		var (
			bd BlockedDate
			d  time.Time
		)
		if err := row.Scan(&bd.ID, &bd.PropertyID, &d, &bd.Reason, &bd.CreatedAt); err != nil {
			return nil, err
		}
		bd.Date = availability.DateOf(d.UTC())
		return &bd, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan blocked dates failed: %w", err)
	}
	return result, nil
}

// BlockedDays implements availability.BlockedSource.
func (r *pgxRepository) BlockedDays(ctx context.Context, propertyID string, from, to availability.Date) ([]availability.Date, error) {
	const query = `
		SELECT date FROM public.blocked_dates
		WHERE property_id = $1 AND date >= $2 AND date < $3
	`
	rows, err := r.pool.Query(ctx, query, propertyID, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("list blocked days failed: %w", err)
	}

	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (availability.Date, error) {
		var d time.Time
		err := row.Scan(&d)
		return availability.DateOf(d.UTC()), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan blocked days failed: %w", err)
	}
	return days, nil
}
