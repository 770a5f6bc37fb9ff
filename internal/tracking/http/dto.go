package http

type HeartbeatRequest struct {
	SessionID     string `json:"session_id" binding:"required"`
	ActiveSeconds int    `json:"active_seconds"`
	ScrollDepth   int    `json:"scroll_depth"`
}

type StatsQuery struct {
	// Days of history to include, counted back from now.
	Days int `form:"days"`
}
