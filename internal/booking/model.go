package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrDateConflict      = apperror.New(http.StatusConflict, "dates are no longer available")
	ErrPastDate          = apperror.New(http.StatusBadRequest, string(availability.ReasonPastDate))
	ErrZeroLength        = apperror.New(http.StatusBadRequest, string(availability.ReasonZeroLength))
	ErrUnavailable       = apperror.New(http.StatusConflict, string(availability.ReasonUnavailableDateInRange))
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid status transition")
	ErrCheckInTooEarly   = apperror.New(http.StatusConflict, "cannot check in before the check-in date")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidGuests     = apperror.New(http.StatusBadRequest, "number of guests exceeds property capacity")
	ErrPropertyNotFound  = apperror.New(http.StatusNotFound, "property not found")
	ErrPropertyInactive  = apperror.New(http.StatusConflict, "property is not accepting bookings")
	ErrOwnProperty       = apperror.New(http.StatusBadRequest, "hosts cannot book their own property")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "to must be after from")
)

// reasonError maps a rejected selection to the error returned to callers.
func reasonError(r availability.Reason) error {
	switch r {
	case availability.ReasonNone:
		return nil
	case availability.ReasonPastDate:
		return ErrPastDate
	case availability.ReasonZeroLength:
		return ErrZeroLength
	default:
		return ErrUnavailable
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled}

// ParseStatus validates a status received from a client or the database.
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Hold reports how the status occupies the calendar.
func (s Status) Hold() availability.Hold {
	switch s {
	case StatusCancelled:
		return availability.HoldNone
	case StatusPending:
		return availability.HoldTentative
	case StatusConfirmed, StatusCheckedIn, StatusCompleted:
		return availability.HoldFirm
	default:
		// Unknown statuses must never free dates.
		return availability.HoldFirm
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch next {
	case StatusConfirmed:
		return s == StatusPending
	case StatusCheckedIn:
		return s == StatusConfirmed
	case StatusCompleted:
		return s == StatusCheckedIn
	case StatusCancelled:
		return s == StatusPending || s == StatusConfirmed || s == StatusCheckedIn
	default:
		return false
	}
}

// Booking is a guest's stay at a property over [CheckIn, CheckOut).
type Booking struct {
	ID            string
	PropertyID    string
	PropertyTitle string
	HostID        string
	GuestID       string
	GuestName     string
	CheckIn       availability.Date
	CheckOut      availability.Date
	Status        Status
	Guests        int
	TotalPrice    int64 // minor units
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Nights is the number of nights of the stay.
func (b *Booking) Nights() int {
	return b.CheckIn.DaysUntil(b.CheckOut)
}

// Reservation projects the booking onto the calendar.
func (b *Booking) Reservation() availability.Reservation {
	return availability.Reservation{
		ID:       b.ID,
		CheckIn:  b.CheckIn,
		CheckOut: b.CheckOut,
		Hold:     b.Status.Hold(),
	}
}

// TotalPrice is the amount charged for a stay: every night plus one cleaning fee.
func TotalPrice(nights int, pricePerNight, cleaningFee int64) int64 {
	if nights <= 0 {
		return 0
	}
	return int64(nights)*pricePerNight + cleaningFee
}

type Filter struct {
	GuestID    string
	HostID     string
	PropertyID string
	Status     Status
	// From / To select bookings whose stay overlaps [From, To).
	From *availability.Date
	To   *availability.Date

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
