package report

import (
	"net/http"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/booking"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

var ErrInvalidPeriod = apperror.New(http.StatusBadRequest, "report period must be between 1 and 366 days")

const maxPeriodDays = 366

// Period is the half-open range of days [From, To) a report covers.
type Period struct {
	From availability.Date `json:"from"`
	To   availability.Date `json:"to"`
}

func (p Period) Days() int { return p.From.DaysUntil(p.To) }

func (p Period) Validate() error {
	if d := p.Days(); d < 1 || d > maxPeriodDays {
		return ErrInvalidPeriod
	}
	return nil
}

func (p Period) contains(d availability.Date) bool {
	return !d.Before(p.From) && d.Before(p.To)
}

// nightsWithin counts the nights of [checkIn, checkOut) that fall in p.
func (p Period) nightsWithin(checkIn, checkOut availability.Date) int {
	start := availability.MaxDate(checkIn, p.From)
	end := availability.MinDate(checkOut, p.To)
	return max(start.DaysUntil(end), 0)
}

// Summary is the occupancy and revenue of a set of properties over a period.
// Money is in minor currency units.
type Summary struct {
	Period            Period                 `json:"period"`
	Properties        int                    `json:"properties"`
	AvailableNights   int                    `json:"available_nights"`
	OccupiedNights    int                    `json:"occupied_nights"`
	OccupancyRate     float64                `json:"occupancy_rate"`
	Revenue           int64                  `json:"revenue"`
	PendingRevenue    int64                  `json:"pending_revenue"`
	Bookings          int                    `json:"bookings"`
	ByStatus          map[booking.Status]int `json:"by_status"`
	AverageStayNights float64                `json:"average_stay_nights"`
}

// Summarize reduces the bookings of propertyCount properties to a Summary.
//
// Occupancy counts the nights of firm bookings that fall inside the period.
// Revenue and PendingRevenue count whole bookings that check in inside the
// period, so a stay is never split across reports. Cancelled bookings only
// show up in ByStatus.
func Summarize(period Period, propertyCount int, bookings []*booking.Booking) Summary {
	s := Summary{
		Period:          period,
		Properties:      propertyCount,
		AvailableNights: max(period.Days(), 0) * propertyCount,
		ByStatus:        make(map[booking.Status]int, len(booking.AllStatuses)),
	}
	for _, st := range booking.AllStatuses {
		s.ByStatus[st] = 0
	}

	var stayNights, stays int
	for _, b := range bookings {
		s.Bookings++
		s.ByStatus[b.Status]++

		hold := b.Status.Hold()
		if hold == availability.HoldNone {
			continue
		}

		stays++
		stayNights += b.Nights()

		if hold == availability.HoldFirm {
			s.OccupiedNights += period.nightsWithin(b.CheckIn, b.CheckOut)
		}
		if !period.contains(b.CheckIn) {
			continue
		}
		if hold == availability.HoldFirm {
			s.Revenue += b.TotalPrice
		} else {
			s.PendingRevenue += b.TotalPrice
		}
	}

	if s.AvailableNights > 0 {
		s.OccupancyRate = float64(s.OccupiedNights) / float64(s.AvailableNights)
	}
	if stays > 0 {
		s.AverageStayNights = float64(stayNights) / float64(stays)
	}
	return s
}
