package types

// AccessTechnology is the radio access technology of the cellular network
type AccessTechnology int

const (
	AccessUnknown AccessTechnology = iota
	Access2G
	Access3G
	AccessLTE
)

// String returns the string representation of the access technology
func (a AccessTechnology) String() string {
	switch a {
	case Access2G:
		return "2G"
	case Access3G:
		return "3G"
	case AccessLTE:
		return "LTE"
	default:
		return "unknown"
	}
}

// Indicators is a read-only snapshot of the status bar values
type Indicators struct {
	BatteryLevel   uint8            `json:"battery_level"`
	Charging       bool             `json:"charging"`
	SIMPresent     bool             `json:"sim_present"`
	SignalStrength int              `json:"signal_strength"` // bars, 0..4
	Network        AccessTechnology `json:"network"`
}

// Indicator names a hardware indicator that can be switched on or off
type Indicator string

const (
	IndicatorKeypadLight Indicator = "keypad_light"
	IndicatorTorch       Indicator = "torch"
	IndicatorVibration   Indicator = "vibration"
)

// ParseIndicator maps a name to a known indicator
func ParseIndicator(s string) (Indicator, bool) {
	switch ind := Indicator(s); ind {
	case IndicatorKeypadLight, IndicatorTorch, IndicatorVibration:
		return ind, true
	}
	return "", false
}
