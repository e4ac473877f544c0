package tracking

// ReadingMetrics is a point-in-time snapshot of everything the tracker has
// accumulated. ActiveTimeSeconds never exceeds TimeSpentSeconds and
// ScrollDepthPercent stays within [0, 100].
type ReadingMetrics struct {
	TimeSpentSeconds   float64 `json:"time_spent_seconds"`
	ActiveTimeSeconds  float64 `json:"active_time_seconds"`
	ScrollDepthPercent float64 `json:"scroll_depth_percent"`
	ScrollBackCount    int     `json:"scroll_back_count"`
	PauseCount         int     `json:"pause_count"`
	MouseActivityScore float64 `json:"mouse_activity_score"`
}
