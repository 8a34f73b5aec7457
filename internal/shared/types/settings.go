package types

// SettingScope separates settings shared by every application from those
// private to one
type SettingScope int

const (
	ScopeGlobal SettingScope = iota
	ScopeAppLocal
)

// String returns the string representation of the scope
func (s SettingScope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeAppLocal:
		return "app_local"
	default:
		return "unknown"
	}
}

// Well-known global settings
const (
	SettingTimeFormat          = "gs_time_format"           // "12" or "24"
	SettingLockPasscodeEnabled = "gs_lock_passcode_enabled" // "1" or "0"
)

// Setting values
const (
	TimeFormat12 = "12"
	TimeFormat24 = "24"
	SettingOn    = "1"
	SettingOff   = "0"
)

// ParseScope parses the string form of a scope
func ParseScope(s string) (SettingScope, bool) {
	switch s {
	case "global", "":
		return ScopeGlobal, true
	case "app_local":
		return ScopeAppLocal, true
	default:
		return ScopeGlobal, false
	}
}
