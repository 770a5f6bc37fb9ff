package page

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
	Create(ctx context.Context, p *Page) error
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, p *Page) error
	Delete(ctx context.Context, slug string) error
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *pgxRepository) Create(ctx context.Context, p *Page) error {
	query, args, err := r.psql.Insert("public.pages").
		Columns("slug", "title", "content").
		Values(p.Slug, p.Title, p.Content).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create page query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create page failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	query, args, err := r.psql.Select("id", "slug", "title", "content", "created_at", "updated_at").
		From("public.pages").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get page query failed: %w", err)
	}

	var p Page
	err = r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get page failed: %w", err)
	}
	return &p, nil
}

// List returns every page without its content, ordered by slug.
func (r *pgxRepository) List(ctx context.Context) ([]*Page, error) {
	query, args, err := r.psql.Select("id", "slug", "title", "created_at", "updated_at").
		From("public.pages").
		OrderBy("slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list pages query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages failed: %w", err)
	}
	defer rows.Close()

	var result []*Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Page) error {
	query, args, err := r.psql.Update("public.pages").
		Set("title", p.Title).
		Set("content", p.Content).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update page query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update page failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, slug string) error {
	query, args, err := r.psql.Delete("public.pages").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete page query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete page failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
