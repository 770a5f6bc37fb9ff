package property

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "property not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "capacity must be at least 1")
	ErrInvalidRooms     = apperror.New(http.StatusBadRequest, "bedrooms and bathrooms cannot be negative")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "prices cannot be negative")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "available_to must be after available_from")
	ErrHasBookings      = apperror.New(http.StatusConflict, "property has upcoming bookings")
)

// Property is a rentable listing owned by a host.
// Money amounts are in minor currency units.
type Property struct {
	ID            string
	HostID        string
	HostName      string
	Title         string
	Description   string
	Address       string
	City          string
	Country       string
	Capacity      int
	Bedrooms      int
	Bathrooms     int
	PricePerNight int64
	CleaningFee   int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsManagedBy reports whether userID may modify the property.
func (p *Property) IsManagedBy(userID string, isSysAdmin bool) bool {
	return isSysAdmin || (userID != "" && p.HostID == userID)
}

// Filter defines parameters for listing properties.
type Filter struct {
	HostID    string
	City      string
	Keyword   string
	MinGuests int
	IsActive  *bool

	// When both are set, only properties free for every night of
	// [AvailableFrom, AvailableTo) are returned.
	AvailableFrom *availability.Date
	AvailableTo   *availability.Date

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
