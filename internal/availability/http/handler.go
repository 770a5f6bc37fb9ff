package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/booking"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

const (
	defaultCalendarDays = 90
	maxCalendarDays     = 366
)

var ErrInvalidWindow = apperror.New(http.StatusBadRequest, "calendar window must be between 1 and 366 days")

type Handler struct {
	service     availability.Service
	properties  property.Service
	userService user.Service
	clock       clock.Clock
}

func NewHandler(service availability.Service, properties property.Service, userService user.Service, clk clock.Clock) *Handler {
	return &Handler{
		service:     service,
		properties:  properties,
		userService: userService,
		clock:       clk,
	}
}

// visibleProperty loads the property and reports whether the caller manages it.
// Inactive properties are only visible to their managers.
func (h *Handler) visibleProperty(c *gin.Context, id string) (*property.Property, bool, error) {
	ctx := c.Request.Context()
	p, err := h.properties.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	callerID := auth.GetUserID(c)
	manages := callerID != "" && p.IsManagedBy(callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if !p.IsActive && !manages {
		return nil, false, property.ErrNotFound
	}
	return p, manages, nil
}

// Calendar returns the per-day status of a property over [from, to).
// Defaults to the next 90 days starting today.
func (h *Handler) Calendar(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	from := availability.DateOf(h.clock.Now())
	if q.From != "" {
		d, err := availability.ParseDate(q.From)
		if err != nil {
			response.Error(c, err)
			return
		}
		from = d
	}
	to := from.AddDays(defaultCalendarDays)
	if q.To != "" {
		d, err := availability.ParseDate(q.To)
		if err != nil {
			response.Error(c, err)
			return
		}
		to = d
	}
	if span := from.DaysUntil(to); span < 1 || span > maxCalendarDays {
		response.Error(c, ErrInvalidWindow)
		return
	}

	p, _, err := h.visibleProperty(c, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.service.Snapshot(c.Request.Context(), p.ID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, CalendarResponse{
		PropertyID: p.ID,
		From:       from,
		To:         to,
		Days:       snap.Calendar(from, to),
	})
}

// Check reports whether [check_in, check_out) can be selected by the caller.
// The property's host is checked with host rules, everybody else as a guest.
func (h *Handler) Check(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q CheckQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	checkIn, err := availability.ParseDate(q.CheckIn)
	if err != nil {
		response.Error(c, err)
		return
	}
	checkOut, err := availability.ParseDate(q.CheckOut)
	if err != nil {
		response.Error(c, err)
		return
	}

	p, manages, err := h.visibleProperty(c, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	role := availability.RoleGuest
	if manages {
		role = availability.RoleHost
	}

	snap := availability.NewSnapshot(nil, nil)
	if checkOut.After(checkIn) && checkIn.DaysUntil(checkOut) <= availability.MaxStayNights {
		snap, err = h.service.Snapshot(c.Request.Context(), p.ID, checkIn, checkOut)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	ok, reason := snap.IsRangeSelectable(checkIn, checkOut, role, availability.DateOf(h.clock.Now()))
	resp := CheckResponse{Selectable: ok, Reason: reason}
	if ok {
		resp.Nights = checkIn.DaysUntil(checkOut)
		resp.TotalPrice = booking.TotalPrice(resp.Nights, p.PricePerNight, p.CleaningFee)
	}

	c.JSON(http.StatusOK, resp)
}
