package http

import (
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/booking"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
)

const (
	scopeGuest = "guest"
	scopeHost  = "host"
	scopeAll   = "all"
)

// ListBookingsRequest defines query parameters for listing bookings.
// `as` selects whose bookings are listed: the caller's stays (guest), stays at
// the caller's properties (host), or everything (system admins only).
type ListBookingsRequest struct {
	request.ListParams
	As         string `form:"as" binding:"omitempty,oneof=guest host all"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	GuestID    string `form:"guest_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed checked_in completed cancelled"`
	From       string `form:"from"`
	To         string `form:"to"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=check_in check_out created_at total_price"`
}

type PropertyTag struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type GuestTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID         string            `json:"id"`
	Property   PropertyTag       `json:"property"`
	Guest      GuestTag          `json:"guest"`
	CheckIn    availability.Date `json:"check_in"`
	CheckOut   availability.Date `json:"check_out"`
	Nights     int               `json:"nights"`
	Guests     int               `json:"guests"`
	Status     string            `json:"status"`
	TotalPrice int64             `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		Property:   PropertyTag{ID: b.PropertyID, Title: b.PropertyTitle},
		Guest:      GuestTag{ID: b.GuestID, Name: b.GuestName},
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Nights:     b.Nights(),
		Guests:     b.Guests,
		Status:     string(b.Status),
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	Guests     int    `json:"guests" binding:"required,min=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed checked_in completed cancelled"`
}
