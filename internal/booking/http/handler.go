package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/booking"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

type Handler struct {
	service     booking.Service
	userService user.Service
}

func NewHandler(service booking.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

func parseOptionalDate(s string) (*availability.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := availability.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	from, err := parseOptionalDate(req.From)
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseOptionalDate(req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := booking.Filter{
		PropertyID: req.PropertyID,
		Status:     booking.Status(req.Status),
		From:       from,
		To:         to,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  strings.ToUpper(req.SortOrder),
	}

	// Access Control: callers only ever see their own side unless they are admins.
	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	switch req.As {
	case scopeAll:
		if !h.userService.IsSystemAdmin(ctx, callerID) {
			response.Error(c, booking.ErrPermissionDenied)
			return
		}
		filter.GuestID = req.GuestID
	case scopeHost:
		filter.HostID = callerID
		filter.GuestID = req.GuestID
	default:
		filter.GuestID = callerID
	}

	bookings, total, err := h.service.List(ctx, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	b, err := h.service.GetByID(ctx, uri.ID, callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Create requests a stay. The booking starts as pending until the host confirms it.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	checkIn, err := availability.ParseDate(body.CheckIn)
	if err != nil {
		response.Error(c, err)
		return
	}
	checkOut, err := availability.ParseDate(body.CheckOut)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		GuestID:    auth.GetUserID(c),
		PropertyID: body.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     body.Guests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	b, err := h.service.UpdateStatus(ctx, uri.ID, booking.Status(body.Status), callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel is a shortcut for PATCH /bookings/:id/status {"status":"cancelled"}.
func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	b, err := h.service.UpdateStatus(ctx, uri.ID, booking.StatusCancelled, callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
