package tracking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

var (
	ErrSessionRequired  = apperror.New(http.StatusBadRequest, "session_id is required")
	ErrSessionTooLong   = apperror.New(http.StatusBadRequest, "session_id is too long")
	ErrPropertyNotFound = apperror.New(http.StatusNotFound, "property not found")
)

const (
	maxSessionIDLength = 64
	maxScrollDepth     = 100
	// A single heartbeat cannot report more than a day of attention.
	maxActiveSeconds = 24 * 60 * 60
)

// Heartbeat is what a client periodically reports while a listing is on screen.
// Values are cumulative for the session.
type Heartbeat struct {
	SessionID     string
	ActiveSeconds int
	ScrollDepth   int
}

// View is the engagement of one browser session with one property.
type View struct {
	PropertyID     string
	SessionID      string
	ViewerID       *string
	ActiveSeconds  int
	MaxScrollDepth int
	FirstSeenAt    time.Time
	LastSeenAt     time.Time
}

// Merge folds a heartbeat into v. Counters only grow, so late or duplicated
// heartbeats never lose engagement already recorded.
func Merge(v View, hb Heartbeat, at time.Time) View {
	v.ActiveSeconds = max(v.ActiveSeconds, clamp(hb.ActiveSeconds, 0, maxActiveSeconds))
	v.MaxScrollDepth = max(v.MaxScrollDepth, clamp(hb.ScrollDepth, 0, maxScrollDepth))
	if v.FirstSeenAt.IsZero() {
		v.FirstSeenAt = at
	}
	if at.After(v.LastSeenAt) {
		v.LastSeenAt = at
	}
	return v
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Stats summarizes the views of one or more properties.
type Stats struct {
	Sessions         int     `json:"sessions"`
	SignedInViewers  int     `json:"signed_in_viewers"`
	AvgActiveSeconds float64 `json:"avg_active_seconds"`
	AvgScrollDepth   float64 `json:"avg_scroll_depth"`
}
