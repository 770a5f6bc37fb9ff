package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

type PropertyHandler struct {
	service     property.Service
	userService user.Service
}

func NewHandler(service property.Service, userService user.Service) *PropertyHandler {
	return &PropertyHandler{
		service:     service,
		userService: userService,
	}
}

// List returns public listings. Inactive listings are only visible to their
// host (when filtering by their own host_id) and to system admins.
func (h *PropertyHandler) List(c *gin.Context) {
	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	filter := property.Filter{
		HostID:    req.HostID,
		City:      strings.TrimSpace(req.City),
		Keyword:   strings.TrimSpace(req.Keyword),
		MinGuests: req.MinGuests,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	if req.AvailableFrom != "" {
		d, err := availability.ParseDate(req.AvailableFrom)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.AvailableFrom = &d
	}
	if req.AvailableTo != "" {
		d, err := availability.ParseDate(req.AvailableTo)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.AvailableTo = &d
	}

	callerID := auth.GetUserID(c)
	canSeeInactive := (req.HostID != "" && req.HostID == callerID) || h.userService.IsSystemAdmin(c.Request.Context(), callerID)
	if !canSeeInactive {
		active := true
		filter.IsActive = &active
	}

	props, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PropertyResponse, len(props))
	for i, p := range props {
		items[i] = NewPropertyResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *PropertyHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.service.GetByID(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	callerID := auth.GetUserID(c)
	if !p.IsActive && !p.IsManagedBy(callerID, h.userService.IsSystemAdmin(ctx, callerID)) {
		response.Error(c, property.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewPropertyResponse(p))
}

// Create lists a new property with the caller as host.
func (h *PropertyHandler) Create(c *gin.Context) {
	var body CreatePropertyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), property.CreateRequest{
		HostID:        auth.GetUserID(c),
		Title:         body.Title,
		Description:   body.Description,
		Address:       body.Address,
		City:          body.City,
		Country:       body.Country,
		Capacity:      body.Capacity,
		Bedrooms:      body.Bedrooms,
		Bathrooms:     body.Bathrooms,
		PricePerNight: body.PricePerNight,
		CleaningFee:   body.CleaningFee,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPropertyResponse(p))
}

func (h *PropertyHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdatePropertyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	p, err := h.service.Update(ctx, uri.ID, property.UpdateRequest{
		Title:         body.Title,
		Description:   body.Description,
		Address:       body.Address,
		City:          body.City,
		Country:       body.Country,
		Capacity:      body.Capacity,
		Bedrooms:      body.Bedrooms,
		Bathrooms:     body.Bathrooms,
		PricePerNight: body.PricePerNight,
		CleaningFee:   body.CleaningFee,
		IsActive:      body.IsActive,
	}, callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPropertyResponse(p))
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	if err := h.service.Delete(ctx, uri.ID, callerID, h.userService.IsSystemAdmin(ctx, callerID)); err != nil {
		if errors.Is(err, property.ErrHasBookings) {
			c.JSON(http.StatusConflict, response.ErrorResponse{
				Error:   err.Error(),
				Details: "cancel upcoming bookings or deactivate the listing instead",
			})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
