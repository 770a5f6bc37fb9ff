package page

import (
	"net/http"
	"regexp"
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "page not found")
	ErrSlugTaken       = apperror.New(http.StatusConflict, "slug already in use")
	ErrInvalidSlug     = apperror.New(http.StatusBadRequest, "slug must be lowercase letters, digits and dashes")
	ErrTitleRequired   = apperror.New(http.StatusBadRequest, "title is required")
	ErrContentRequired = apperror.New(http.StatusBadRequest, "content is required")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

const maxSlugLength = 64

// ValidSlug reports whether s can name a page, e.g. "cancellation-policy".
func ValidSlug(s string) bool {
	return len(s) <= maxSlugLength && slugPattern.MatchString(s)
}

// Page is a static document such as the terms of service or privacy policy.
type Page struct {
	ID        string
	Slug      string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
