package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts p at the end of the property's gallery and sets its Position.
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, propertyID, id string) (*Photo, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*Photo, error)
	CountByProperty(ctx context.Context, propertyID string) (int, error)
	Delete(ctx context.Context, propertyID, id string) error
}

type repository struct {
	db   *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var photoColumns = []string{
	"id", "property_id", "uploader_id", "filename", "storage_path",
	"thumbnail_path", "content_type", "size", "position", "created_at",
}

func scanPhoto(row pgx.Row) (*Photo, error) {
	p := &Photo{}
	err := row.Scan(
		&p.ID,
		&p.PropertyID,
		&p.UploaderID,
		&p.Filename,
		&p.StoragePath,
		&p.ThumbnailPath,
		&p.ContentType,
		&p.Size,
		&p.Position,
		&p.CreatedAt,
	)
	return p, err
}

func (r *repository) Create(ctx context.Context, p *Photo) error {
	query, args, err := r.psql.Insert("public.property_photos").
		Columns("id", "property_id", "uploader_id", "filename", "storage_path", "thumbnail_path", "content_type", "size", "position").
		Values(
			p.ID, p.PropertyID, p.UploaderID, p.Filename, p.StoragePath, p.ThumbnailPath, p.ContentType, p.Size,
			squirrel.Expr("(SELECT COALESCE(MAX(position), -1) + 1 FROM public.property_photos WHERE property_id = ?)", p.PropertyID),
		).
		Suffix("RETURNING position, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.Position, &p.CreatedAt); err != nil {
		return fmt.Errorf("failed to create photo record: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, propertyID, id string) (*Photo, error) {
	query, args, err := r.psql.Select(photoColumns...).
		From("public.property_photos").
		Where(squirrel.Eq{"id": id, "property_id": propertyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID string) ([]*Photo, error) {
	query, args, err := r.psql.Select(photoColumns...).
		From("public.property_photos").
		Where(squirrel.Eq{"property_id": propertyID}).
		OrderBy("position ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	photos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Photo, error) {
		return scanPhoto(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan photos: %w", err)
	}
	return photos, nil
}

func (r *repository) CountByProperty(ctx context.Context, propertyID string) (int, error) {
	query, args, err := r.psql.Select("COUNT(*)").
		From("public.property_photos").
		Where(squirrel.Eq{"property_id": propertyID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return n, nil
}

func (r *repository) Delete(ctx context.Context, propertyID, id string) error {
	query, args, err := r.psql.Delete("public.property_photos").
		Where(squirrel.Eq{"id": id, "property_id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete photo record: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
