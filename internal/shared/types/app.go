package types

import "time"

// State represents application lifecycle states
type State int

const (
	StateNone State = iota
	StateDeactivated
	StateInitializing
	StateActivating
	StateActiveForeground
	StateActiveBackground
	StateDeactivating
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateDeactivated:
		return "deactivated"
	case StateInitializing:
		return "initializing"
	case StateActivating:
		return "activating"
	case StateActiveForeground:
		return "active_foreground"
	case StateActiveBackground:
		return "active_background"
	case StateDeactivating:
		return "deactivating"
	default:
		return "unknown"
	}
}

// AppInfo describes an application known to the manager
type AppInfo struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Parent            string    `json:"parent,omitempty"`
	StartInBackground bool      `json:"start_in_background"`
	Initialised       bool      `json:"initialised"`
	Focused           bool      `json:"focused"`
	Closing           bool      `json:"closing"`
	LaunchedAt        time.Time `json:"launched_at"`
}

// Stats contains app manager statistics
type Stats struct {
	TotalApps      int      `json:"total_apps"`
	BackgroundApps int      `json:"background_apps"`
	FocusedApp     *string  `json:"focused_app,omitempty"`
	FocusHistory   []string `json:"focus_history"`
}
