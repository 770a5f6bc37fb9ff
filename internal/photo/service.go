package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
)

type UploadInput struct {
	PropertyID string
	Filename   string
	Content    io.Reader
	ActorID    string
	IsSysAdmin bool
}

// Viewer identifies who is reading photos. The zero value is an anonymous visitor.
type Viewer struct {
	UserID     string
	IsSysAdmin bool
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Photo, error)
	// Reads of an inactive property's photos fail with property.ErrNotFound
	// unless the viewer manages the property.
	List(ctx context.Context, propertyID string, viewer Viewer) ([]*Photo, error)
	Download(ctx context.Context, propertyID, id string, viewer Viewer) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, propertyID, id string, viewer Viewer) (io.ReadCloser, *Photo, error)
	Delete(ctx context.Context, propertyID, id string, actorID string, isSysAdmin bool) error
}

// PropertyAccess is the part of property.Service photos depend on.
type PropertyAccess interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
	Authorize(ctx context.Context, id string, actorID string, isSysAdmin bool) (*property.Property, error)
}

type service struct {
	repo       Repository
	properties PropertyAccess
	storage    storage.Storage
	imgProc    *storage.ImageProcessor
	maxBytes   int64
}

func NewService(repo Repository, properties PropertyAccess, store storage.Storage, maxBytes int64) Service {
	return &service{
		repo:       repo,
		properties: properties,
		storage:    store,
		imgProc:    storage.NewImageProcessor(),
		maxBytes:   maxBytes,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Photo, error) {
	if _, err := s.properties.Authorize(ctx, in.PropertyID, in.ActorID, in.IsSysAdmin); err != nil {
		return nil, err
	}

	n, err := s.repo.CountByProperty(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if n >= maxPhotosPerProperty {
		return nil, ErrTooManyPhotos
	}

	// Read one byte past the limit to tell "exactly max" from "too large".
	content, err := io.ReadAll(io.LimitReader(in.Content, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	// The client's Content-Type header is not trusted.
	if !allowedTypes[http.DetectContentType(content)] {
		return nil, ErrUnsupportedType
	}

	original, err := s.imgProc.Fit(bytes.NewReader(content), maxDimension, maxDimension)
	if err != nil {
		return nil, ErrInvalidImage
	}

	photoID := uuid.New().String()
	dir := path.Join("properties", in.PropertyID)
	storagePath := path.Join(dir, photoID+".jpg")
	size := int64(original.Len())

	if err := s.storage.Save(ctx, storagePath, original, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("failed to save photo to storage: %w", err)
	}

	var thumbnailPath *string
	if thumb, err := s.imgProc.Thumbnail(bytes.NewReader(content), thumbnailSize); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("photo_id", photoID).Msg("thumbnail generation failed")
	} else {
		tPath := path.Join(dir, photoID+"_thumb.jpg")
		if err := s.storage.Save(ctx, tPath, thumb, "image/jpeg"); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("photo_id", photoID).Msg("failed to save thumbnail")
		} else {
			thumbnailPath = &tPath
		}
	}

	p := &Photo{
		ID:            photoID,
		PropertyID:    in.PropertyID,
		UploaderID:    in.ActorID,
		Filename:      cleanFilename(in.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   "image/jpeg",
		Size:          size,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.removeObjects(ctx, p)
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("photo_id", p.ID).
		Str("property_id", p.PropertyID).
		Int64("size", p.Size).
		Msg("photo uploaded")
	return p, nil
}

// cleanFilename keeps the base name only, for use in Content-Disposition.
func cleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "photo.jpg"
	}
	return name
}

// removeObjects deletes stored objects best effort.
func (s *service) removeObjects(ctx context.Context, p *Photo) {
	if err := s.storage.Delete(ctx, p.StoragePath); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", p.StoragePath).Msg("failed to delete photo object")
	}
	if p.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *p.ThumbnailPath); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", *p.ThumbnailPath).Msg("failed to delete thumbnail object")
		}
	}
}

// checkVisible hides inactive listings from everyone but their managers.
func (s *service) checkVisible(ctx context.Context, propertyID string, viewer Viewer) error {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if !p.IsActive && !p.IsManagedBy(viewer.UserID, viewer.IsSysAdmin) {
		return property.ErrNotFound
	}
	return nil
}

func (s *service) List(ctx context.Context, propertyID string, viewer Viewer) ([]*Photo, error) {
	if err := s.checkVisible(ctx, propertyID, viewer); err != nil {
		return nil, err
	}
	return s.repo.ListByProperty(ctx, propertyID)
}

func (s *service) open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	stream, err := s.storage.Get(ctx, objectPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve photo from storage: %w", err)
	}
	return stream, nil
}

func (s *service) Download(ctx context.Context, propertyID, id string, viewer Viewer) (io.ReadCloser, *Photo, error) {
	if err := s.checkVisible(ctx, propertyID, viewer); err != nil {
		return nil, nil, err
	}
	p, err := s.repo.GetByID(ctx, propertyID, id)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.open(ctx, p.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return stream, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, propertyID, id string, viewer Viewer) (io.ReadCloser, *Photo, error) {
	if err := s.checkVisible(ctx, propertyID, viewer); err != nil {
		return nil, nil, err
	}
	p, err := s.repo.GetByID(ctx, propertyID, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailUnavailable
	}
	stream, err := s.open(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, err
	}
	return stream, p, nil
}

func (s *service) Delete(ctx context.Context, propertyID, id string, actorID string, isSysAdmin bool) error {
	if _, err := s.properties.Authorize(ctx, propertyID, actorID, isSysAdmin); err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, propertyID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, propertyID, id); err != nil {
		return err
	}
	s.removeObjects(ctx, p)
	return nil
}
