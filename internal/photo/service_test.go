package photo

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
)

type memRepo struct {
	photos    map[string]*Photo
	createErr error
}

func (r *memRepo) Create(_ context.Context, p *Photo) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.Position = len(r.photos)
	p.CreatedAt = time.Now()
	r.photos[p.ID] = p
	return nil
}

func (r *memRepo) GetByID(_ context.Context, propertyID, id string) (*Photo, error) {
	p, ok := r.photos[id]
	if !ok || p.PropertyID != propertyID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *memRepo) ListByProperty(_ context.Context, propertyID string) ([]*Photo, error) {
	var out []*Photo
	for _, p := range r.photos {
		if p.PropertyID == propertyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) CountByProperty(ctx context.Context, propertyID string) (int, error) {
	photos, _ := r.ListByProperty(ctx, propertyID)
	return len(photos), nil
}

func (r *memRepo) Delete(_ context.Context, propertyID, id string) error {
	if p, ok := r.photos[id]; !ok || p.PropertyID != propertyID {
		return ErrNotFound
	}
	delete(r.photos, id)
	return nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memStorage) Save(_ context.Context, path string, content io.Reader, _ string) error {
	b, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = b
	return nil
}

func (s *memStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

// fakeProperties knows "p1" (active) and "p3" (inactive), both hosted by "host".
type fakeProperties struct{}

func (fakeProperties) GetByID(_ context.Context, id string) (*property.Property, error) {
	switch id {
	case "p1":
		return &property.Property{ID: "p1", HostID: "host", IsActive: true}, nil
	case "p3":
		return &property.Property{ID: "p3", HostID: "host", IsActive: false}, nil
	}
	return nil, property.ErrNotFound
}

func (f fakeProperties) Authorize(ctx context.Context, id string, actorID string, isSysAdmin bool) (*property.Property, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsManagedBy(actorID, isSysAdmin) {
		return nil, property.ErrPermissionDenied
	}
	return p, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(maxBytes int64) (Service, *memRepo, *memStorage) {
	repo := &memRepo{photos: map[string]*Photo{}}
	store := &memStorage{objects: map[string][]byte{}}
	return NewService(repo, fakeProperties{}, store, maxBytes), repo, store
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Upload: Success (Host)", func(t *testing.T) {
		svc, repo, store := newTestService(1 << 20)

		p, err := svc.Upload(ctx, UploadInput{
			PropertyID: "p1",
			Filename:   `C:\photos\living "room".png`,
			Content:    bytes.NewReader(pngBytes(t, 64, 32)),
			ActorID:    "host",
		})
		require.NoError(t, err)

		assert.Equal(t, "living room.png", p.Filename)
		assert.Equal(t, "image/jpeg", p.ContentType)
		assert.Equal(t, "host", p.UploaderID)
		assert.True(t, strings.HasPrefix(p.StoragePath, "properties/p1/"))
		require.NotNil(t, p.ThumbnailPath)
		assert.Contains(t, store.objects, p.StoragePath)
		assert.Contains(t, store.objects, *p.ThumbnailPath)
		assert.Len(t, repo.photos, 1)

		thumb, _, err := image.Decode(bytes.NewReader(store.objects[*p.ThumbnailPath]))
		require.NoError(t, err)
		assert.Equal(t, thumbnailSize, thumb.Bounds().Dx())
		assert.Equal(t, thumbnailSize, thumb.Bounds().Dy())

		stream, got, err := svc.Download(ctx, "p1", p.ID, Viewer{})
		require.NoError(t, err)
		defer stream.Close()
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("Upload: Fail (Not the host)", func(t *testing.T) {
		svc, _, _ := newTestService(1 << 20)
		_, err := svc.Upload(ctx, UploadInput{PropertyID: "p1", Content: bytes.NewReader(pngBytes(t, 8, 8)), ActorID: "guest"})
		assert.ErrorIs(t, err, property.ErrPermissionDenied)
	})

	t.Run("Upload: Fail (Too large)", func(t *testing.T) {
		content := pngBytes(t, 64, 64)
		svc, _, store := newTestService(int64(len(content) - 1))
		_, err := svc.Upload(ctx, UploadInput{PropertyID: "p1", Content: bytes.NewReader(content), ActorID: "host"})
		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.Empty(t, store.objects)
	})

	t.Run("Upload: Fail (Not an image)", func(t *testing.T) {
		svc, _, _ := newTestService(1 << 20)
		_, err := svc.Upload(ctx, UploadInput{PropertyID: "p1", Content: strings.NewReader("%PDF-1.4 hello"), ActorID: "host"})
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("Upload: Fail (Corrupt image)", func(t *testing.T) {
		svc, _, _ := newTestService(1 << 20)
		content := pngBytes(t, 16, 16)[:40]
		_, err := svc.Upload(ctx, UploadInput{PropertyID: "p1", Content: bytes.NewReader(content), ActorID: "host"})
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("Upload: Fail (Gallery full)", func(t *testing.T) {
		svc, repo, _ := newTestService(1 << 20)
		for i := 0; i < maxPhotosPerProperty; i++ {
			id := string(rune('a'+i%26)) + strings.Repeat("x", i)
			repo.photos[id] = &Photo{ID: id, PropertyID: "p1"}
		}
		_, err := svc.Upload(ctx, UploadInput{PropertyID: "p1", Content: bytes.NewReader(pngBytes(t, 8, 8)), ActorID: "host"})
		assert.ErrorIs(t, err, ErrTooManyPhotos)
	})

	t.Run("Upload: Storage is cleaned up when the record fails", func(t *testing.T) {
		svc, repo, store := newTestService(1 << 20)
		repo.createErr = assert.AnError
		_, err := svc.Upload(ctx, UploadInput{PropertyID: "p1", Content: bytes.NewReader(pngBytes(t, 8, 8)), ActorID: "host"})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, store.objects)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo, store := newTestService(1 << 20)

	p, err := svc.Upload(ctx, UploadInput{PropertyID: "p1", Content: bytes.NewReader(pngBytes(t, 8, 8)), ActorID: "host"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "p1", p.ID, "guest", false), property.ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, "p1", p.ID, "admin", true))

	assert.Empty(t, repo.photos)
	assert.Empty(t, store.objects)
	assert.ErrorIs(t, svc.Delete(ctx, "p1", p.ID, "host", false), ErrNotFound)

	_, _, err = svc.Download(ctx, "p1", p.ID, Viewer{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadThumbnail_Missing(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(1 << 20)
	repo.photos["x"] = &Photo{ID: "x", PropertyID: "p1", StoragePath: "properties/p1/x.jpg"}

	_, _, err := svc.DownloadThumbnail(ctx, "p1", "x", Viewer{})
	assert.ErrorIs(t, err, ErrThumbnailUnavailable)

	_, _, err = svc.Download(ctx, "p1", "x", Viewer{})
	assert.ErrorIs(t, err, ErrNotFound, "object missing from storage")

	_, _, err = svc.Download(ctx, "p1", "y", Viewer{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Download(ctx, "p2", "x", Viewer{})
	assert.ErrorIs(t, err, property.ErrNotFound)
}

func TestReads_InactiveProperty(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(1 << 20)

	p, err := svc.Upload(ctx, UploadInput{PropertyID: "p3", Content: bytes.NewReader(pngBytes(t, 16, 16)), ActorID: "host"})
	require.NoError(t, err)

	t.Run("Reads: Fail (Anonymous visitor)", func(t *testing.T) {
		_, err := svc.List(ctx, "p3", Viewer{})
		assert.ErrorIs(t, err, property.ErrNotFound)
		_, _, err = svc.Download(ctx, "p3", p.ID, Viewer{})
		assert.ErrorIs(t, err, property.ErrNotFound)
		_, _, err = svc.DownloadThumbnail(ctx, "p3", p.ID, Viewer{UserID: "guest"})
		assert.ErrorIs(t, err, property.ErrNotFound)
	})

	t.Run("Reads: Success (Host)", func(t *testing.T) {
		photos, err := svc.List(ctx, "p3", Viewer{UserID: "host"})
		require.NoError(t, err)
		assert.Len(t, photos, 1)

		stream, _, err := svc.Download(ctx, "p3", p.ID, Viewer{UserID: "host"})
		require.NoError(t, err)
		stream.Close()
	})

	t.Run("Reads: Success (System admin)", func(t *testing.T) {
		stream, _, err := svc.DownloadThumbnail(ctx, "p3", p.ID, Viewer{UserID: "admin", IsSysAdmin: true})
		require.NoError(t, err)
		stream.Close()
	})
}
