package types

// ShowMode tells a window why it is being shown
type ShowMode int

const (
	// ShowInit is used when a window is opened by a fresh navigation
	ShowInit ShowMode = iota
	// ShowReturn is used when navigation comes back to an already visited window
	ShowReturn
)

// String returns the string representation of the show mode
func (m ShowMode) String() string {
	switch m {
	case ShowInit:
		return "init"
	case ShowReturn:
		return "return"
	default:
		return "unknown"
	}
}

// RefreshMode is a hint for how thoroughly the renderer should recompute output
type RefreshMode int

const (
	RefreshNone RefreshMode = iota
	RefreshFast
	RefreshDeep
)

// String returns the string representation of the refresh mode
func (m RefreshMode) String() string {
	switch m {
	case RefreshNone:
		return "none"
	case RefreshFast:
		return "fast"
	case RefreshDeep:
		return "deep"
	default:
		return "unknown"
	}
}

// DrawTag marks a draw request that is the last one before a power transition
type DrawTag int

const (
	DrawNormal DrawTag = iota
	DrawSuspend
	DrawShutdown
)

// String returns the string representation of the draw tag
func (t DrawTag) String() string {
	switch t {
	case DrawNormal:
		return "normal"
	case DrawSuspend:
		return "suspend"
	case DrawShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Rect is a screen area in pixels
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// DrawCommand is one primitive of a window's draw list
type DrawCommand struct {
	Op   string `json:"op"`
	Area Rect   `json:"area"`
	Text string `json:"text,omitempty"`
}
