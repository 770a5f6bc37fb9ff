package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/blockeddate"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

type Handler struct {
	service     blockeddate.Service
	userService user.Service
}

func NewHandler(service blockeddate.Service, userService user.Service) *Handler {
	return &Handler{service: service, userService: userService}
}

func parseRange(from, to string) (availability.Date, availability.Date, error) {
	f, err := availability.ParseDate(from)
	if err != nil {
		return availability.Date{}, availability.Date{}, err
	}
	t, err := availability.ParseDate(to)
	if err != nil {
		return availability.Date{}, availability.Date{}, err
	}
	return f, t, nil
}

func (h *Handler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	days, err := h.service.List(ctx, uri.ID, from, to, callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BlockedDateResponse, len(days))
	for i, bd := range days {
		items[i] = NewBlockedDateResponse(bd)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Block(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body BlockRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	from, err := availability.ParseDate(body.From)
	if err != nil {
		response.Error(c, err)
		return
	}
	to := from.AddDays(1)
	if body.To != "" {
		if to, err = availability.ParseDate(body.To); err != nil {
			response.Error(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	n, err := h.service.Block(ctx, blockeddate.BlockRequest{
		PropertyID: uri.ID,
		From:       from,
		To:         to,
		Reason:     body.Reason,
	}, callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ChangeResponse{Changed: n})
}

func (h *Handler) Unblock(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	callerID := auth.GetUserID(c)
	n, err := h.service.Unblock(ctx, uri.ID, from, to, callerID, h.userService.IsSystemAdmin(ctx, callerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ChangeResponse{Changed: n})
}
