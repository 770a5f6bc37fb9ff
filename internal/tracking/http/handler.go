package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-booking-backend/internal/tracking"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

const (
	defaultStatsDays = 30
	maxStatsDays     = 365
)

type Handler struct {
	service     tracking.Service
	userService user.Service
	clock       clock.Clock
}

func NewHandler(service tracking.Service, userService user.Service, clk clock.Clock) *Handler {
	return &Handler{service: service, userService: userService, clock: clk}
}

// Heartbeat records engagement with a listing. Anonymous callers are allowed.
func (h *Handler) Heartbeat(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	hb := tracking.Heartbeat{
		SessionID:     req.SessionID,
		ActiveSeconds: req.ActiveSeconds,
		ScrollDepth:   req.ScrollDepth,
	}
	if err := h.service.Record(c.Request.Context(), uri.ID, auth.GetUserID(c), hb); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Stats(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	if q.Days <= 0 {
		q.Days = defaultStatsDays
	}
	q.Days = min(q.Days, maxStatsDays)

	callerID := auth.GetUserID(c)
	isSysAdmin := h.userService.IsSystemAdmin(c.Request.Context(), callerID)
	since := h.clock.Now().AddDate(0, 0, -q.Days)

	stats, err := h.service.PropertyStats(c.Request.Context(), uri.ID, since, callerID, isSysAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
