package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-booking-backend/internal/report"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

const defaultPeriodDays = 30

type Handler struct {
	service     report.Service
	userService user.Service
	clock       clock.Clock
}

func NewHandler(service report.Service, userService user.Service, clk clock.Clock) *Handler {
	return &Handler{service: service, userService: userService, clock: clk}
}

// period parses from/to. Without from the period ends today; without to it
// lasts 30 days.
func (h *Handler) period(c *gin.Context) (report.Period, bool) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return report.Period{}, false
	}

	var p report.Period
	if q.From != "" {
		from, err := availability.ParseDate(q.From)
		if err != nil {
			response.Error(c, err)
			return report.Period{}, false
		}
		p.From = from
	} else {
		p.From = availability.DateOf(h.clock.Now()).AddDays(1 - defaultPeriodDays)
	}
	if q.To != "" {
		to, err := availability.ParseDate(q.To)
		if err != nil {
			response.Error(c, err)
			return report.Period{}, false
		}
		p.To = to
	} else {
		p.To = p.From.AddDays(defaultPeriodDays)
	}
	return p, true
}

// Dashboard summarizes every property of the caller.
func (h *Handler) Dashboard(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	dashboard, err := h.service.HostDashboard(c.Request.Context(), auth.GetUserID(c), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) PropertyReport(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	period, ok := h.period(c)
	if !ok {
		return
	}

	callerID := auth.GetUserID(c)
	isSysAdmin := h.userService.IsSystemAdmin(c.Request.Context(), callerID)

	rep, err := h.service.PropertyReport(c.Request.Context(), uri.ID, period, callerID, isSysAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
