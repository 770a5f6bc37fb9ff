package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Upsert stores v, keeping the larger counters when the session was already seen.
	Upsert(ctx context.Context, v View) error
	// Stats aggregates the views of the given properties seen at or after since.
	Stats(ctx context.Context, propertyIDs []string, since time.Time) (*Stats, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *pgxRepository) Upsert(ctx context.Context, v View) error {
	// Same rule as Merge, applied against the stored row.
	const query = `
		INSERT INTO public.property_views
			(property_id, session_id, viewer_id, active_seconds, max_scroll_depth, first_seen_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (property_id, session_id) DO UPDATE SET
			viewer_id        = COALESCE(public.property_views.viewer_id, EXCLUDED.viewer_id),
			active_seconds   = GREATEST(public.property_views.active_seconds, EXCLUDED.active_seconds),
			max_scroll_depth = GREATEST(public.property_views.max_scroll_depth, EXCLUDED.max_scroll_depth),
			last_seen_at     = GREATEST(public.property_views.last_seen_at, EXCLUDED.last_seen_at)
	`
	_, err := r.pool.Exec(ctx, query,
		v.PropertyID, v.SessionID, v.ViewerID, v.ActiveSeconds, v.MaxScrollDepth, v.FirstSeenAt, v.LastSeenAt,
	)
	if err != nil {
		return fmt.Errorf("upsert property view failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Stats(ctx context.Context, propertyIDs []string, since time.Time) (*Stats, error) {
	var stats Stats
	if len(propertyIDs) == 0 {
		return &stats, nil
	}

	query, args, err := r.psql.
		Select(
			"COUNT(*)",
			"COUNT(DISTINCT viewer_id)",
			"COALESCE(AVG(active_seconds), 0)",
			"COALESCE(AVG(max_scroll_depth), 0)",
		).
		From("public.property_views").
		Where(squirrel.Eq{"property_id": propertyIDs}).
		Where(squirrel.GtOrEq{"last_seen_at": since}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build view stats query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Sessions, &stats.SignedInViewers, &stats.AvgActiveSeconds, &stats.AvgScrollDepth,
	)
	if err != nil {
		return nil, fmt.Errorf("query view stats failed: %w", err)
	}
	return &stats, nil
}
