package http

import (
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/blockeddate"
)

type BlockedDateResponse struct {
	ID        string            `json:"id"`
	Date      availability.Date `json:"date"`
	Reason    *string           `json:"reason"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewBlockedDateResponse(bd *blockeddate.BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		ID:        bd.ID,
		Date:      bd.Date,
		Reason:    bd.Reason,
		CreatedAt: bd.CreatedAt,
	}
}

// BlockRequest blocks [from, to). Omitting to blocks the single day from.
type BlockRequest struct {
	From   string  `json:"from" binding:"required"`
	To     string  `json:"to"`
	Reason *string `json:"reason"`
}

type RangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type ChangeResponse struct {
	Changed int `json:"changed"`
}
