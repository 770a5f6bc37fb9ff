package http

import (
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
)

type CalendarQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type CalendarResponse struct {
	PropertyID string             `json:"property_id"`
	From       availability.Date  `json:"from"`
	To         availability.Date  `json:"to"`
	Days       []availability.Day `json:"days"`
}

type CheckQuery struct {
	CheckIn  string `form:"check_in" binding:"required"`
	CheckOut string `form:"check_out" binding:"required"`
}

// CheckResponse answers whether a stay can be selected. Nights and TotalPrice
// are only set for selectable stays.
type CheckResponse struct {
	Selectable bool                `json:"selectable"`
	Reason     availability.Reason `json:"reason,omitempty"`
	Nights     int                 `json:"nights,omitempty"`
	TotalPrice int64               `json:"total_price,omitempty"`
}
