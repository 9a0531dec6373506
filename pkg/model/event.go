package model

import "time"

// Trail event types.
const (
	EventSessionStart = "session_start"
	EventOffPath      = "off_path"
	EventOnPath       = "on_path"
	EventPathChanged  = "path_changed"
	EventSessionEnd   = "session_end"
)

// TrailEvent is a notable change during a tracking session.
type TrailEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
}
