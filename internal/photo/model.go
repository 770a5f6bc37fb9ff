package photo

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "photo not found")
	ErrThumbnailUnavailable = apperror.New(http.StatusNotFound, "thumbnail not available for this photo")
	ErrFileTooLarge         = apperror.New(http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType      = apperror.New(http.StatusUnsupportedMediaType, "only JPEG, PNG and GIF images are accepted")
	ErrInvalidImage         = apperror.New(http.StatusBadRequest, "file is not a valid image")
	ErrTooManyPhotos        = apperror.New(http.StatusConflict, "property already has the maximum number of photos")
)

const (
	maxPhotosPerProperty = 30
	maxDimension         = 2000
	thumbnailSize        = 400
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Photo is an image attached to a property listing. Originals are stored
// re-encoded as JPEG.
type Photo struct {
	ID            string
	PropertyID    string
	UploaderID    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	Position      int
	CreatedAt     time.Time
}

// URL returns the public URL of the photo.
func URL(propertyID, id string) string {
	return "/v1/properties/" + propertyID + "/photos/" + id
}

// ThumbnailURL returns the public URL of the photo's thumbnail.
func ThumbnailURL(propertyID, id string) string {
	return URL(propertyID, id) + "/thumbnail"
}
