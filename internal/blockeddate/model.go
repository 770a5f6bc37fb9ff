package blockeddate

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

var (
	ErrPastDate      = apperror.New(http.StatusBadRequest, string(availability.ReasonPastDate))
	ErrZeroLength    = apperror.New(http.StatusBadRequest, string(availability.ReasonZeroLength))
	ErrRangeTooLong  = apperror.New(http.StatusBadRequest, "cannot block more than 365 days at once")
	ErrReasonTooLong = apperror.New(http.StatusBadRequest, "reason is too long")
	ErrInvalidWindow = apperror.New(http.StatusBadRequest, "to must be after from")
)

const (
	maxReasonLength   = 200
	maxBlockRangeDays = availability.MaxStayNights
)

// BlockedDate is a day the host has taken off the market.
type BlockedDate struct {
	ID         string
	PropertyID string
	Date       availability.Date
	Reason     *string
	CreatedAt  time.Time
}
