package property

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for properties.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context, filter Filter) ([]*Property, int, error)
	ListIDsByHost(ctx context.Context, hostID string) ([]string, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id string) error
	HasUpcomingBookings(ctx context.Context, id string, today time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var selectColumns = []string{
	"p.id", "p.host_id", "COALESCE(u.display_name, u.email)", "p.title", "p.description",
	"p.address", "p.city", "p.country", "p.capacity", "p.bedrooms", "p.bathrooms",
	"p.price_per_night", "p.cleaning_fee", "p.is_active", "p.created_at", "p.updated_at",
}

func scanProperty(row pgx.Row, extra ...any) (*Property, error) {
	var p Property
	dest := []any{
		&p.ID, &p.HostID, &p.HostName, &p.Title, &p.Description,
		&p.Address, &p.City, &p.Country, &p.Capacity, &p.Bedrooms, &p.Bathrooms,
		&p.PricePerNight, &p.CleaningFee, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Property) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.properties").
		Columns(
			"host_id", "title", "description", "address", "city", "country",
			"capacity", "bedrooms", "bathrooms", "price_per_night", "cleaning_fee", "is_active",
		).
		Values(
			p.HostID, p.Title, p.Description, p.Address, p.City, p.Country,
			p.Capacity, p.Bedrooms, p.Bathrooms, p.PricePerNight, p.CleaningFee, p.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create property query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(selectColumns...).
		From("public.properties p").
		Join("public.users u ON u.id = p.host_id").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get property query failed: %w", err)
	}

	p, err := scanProperty(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get property failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Property, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(selectColumns, "count(*) OVER() AS total_count")...).
		From("public.properties p").
		Join("public.users u ON u.id = p.host_id")

	if filter.HostID != "" {
		query = query.Where(squirrel.Eq{"p.host_id": filter.HostID})
	}
	if filter.City != "" {
		query = query.Where("lower(p.city) = lower(?)", filter.City)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"p.title": like},
			squirrel.ILike{"p.description": like},
		})
	}
	if filter.MinGuests > 0 {
		query = query.Where(squirrel.GtOrEq{"p.capacity": filter.MinGuests})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"p.is_active": *filter.IsActive})
	}
	if filter.AvailableFrom != nil && filter.AvailableTo != nil {
		from, to := filter.AvailableFrom.Time(), filter.AvailableTo.Time()
		// Both sides are half-open: a stay ending on `from` does not conflict.
		query = query.Where(`NOT EXISTS (
			SELECT 1 FROM public.bookings b
			WHERE b.property_id = p.id AND b.status <> 'cancelled'
			  AND b.check_in < ? AND b.check_out > ?)`, to, from).
			Where(`NOT EXISTS (
			SELECT 1 FROM public.blocked_dates bd
			WHERE bd.property_id = p.id AND bd.date >= ? AND bd.date < ?)`, from, to)
	}

	// SortBy is whitelisted by the handler binding.
	orderBy := "p.created_at"
	if filter.SortBy != "" {
		orderBy = "p." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "p.id")

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
		return nil, 0, fmt.Errorf("build list properties query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties failed: %w", err)
	}
	defer rows.Close()

	var result []*Property
	var total int
	for rows.Next() {
		p, err := scanProperty(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan property failed: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate properties failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) ListIDsByHost(ctx context.Context, hostID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM public.properties WHERE host_id = $1 ORDER BY created_at`, hostID)
	if err != nil {
		return nil, fmt.Errorf("list host properties failed: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan host properties failed: %w", err)
	}
	return ids, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Property) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.properties").
		Set("title", p.Title).
		Set("description", p.Description).
		Set("address", p.Address).
		Set("city", p.City).
		Set("country", p.Country).
		Set("capacity", p.Capacity).
		Set("bedrooms", p.Bedrooms).
		Set("bathrooms", p.Bathrooms).
		Set("price_per_night", p.PricePerNight).
		Set("cleaning_fee", p.CleaningFee).
		Set("is_active", p.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update property query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.properties").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete property query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete property failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasUpcomingBookings(ctx context.Context, id string, today time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.bookings
			WHERE property_id = $1 AND status <> 'cancelled' AND check_out > $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id, today).Scan(&exists); err != nil {
		return false, fmt.Errorf("check upcoming bookings failed: %w", err)
	}
	return exists, nil
}
