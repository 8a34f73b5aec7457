package message

import (
	"fmt"
	"time"

	"github.com/mudita/MuditaOS-sub019/internal/domain/action"
	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/shared/id"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// Kind labels a message type
type Kind int

const (
	KindSwitch Kind = iota
	KindSwitchWindow
	KindRefresh
	KindRebuild
	KindInput
	KindLostFocus
	KindAction
	KindClose
	KindSettingChanged
	KindLongPressTick
	KindBatteryStatus
	KindSIMState
	KindSignalStrength
	KindNetworkAccess
	KindMinuteTick
	KindDraw
)

var kindNames = map[Kind]string{
	KindSwitch:         "app_switch",
	KindSwitchWindow:   "app_switch_window",
	KindRefresh:        "app_refresh",
	KindRebuild:        "app_rebuild",
	KindInput:          "app_input_event",
	KindLostFocus:      "app_lost_focus",
	KindAction:         "app_action_request",
	KindClose:          "app_close",
	KindSettingChanged: "setting_changed",
	KindLongPressTick:  "long_press_tick",
	KindBatteryStatus:  "battery_status",
	KindSIMState:       "sim_state",
	KindSignalStrength: "signal_strength",
	KindNetworkAccess:  "network_access",
	KindMinuteTick:     "minute_tick",
	KindDraw:           "draw",
}

// String returns the message kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Header is the routing information every message carries
type Header struct {
	ID     id.MessageID
	Sender string
	Target string
}

// NewHeader creates a header with a fresh message ID
func NewHeader(sender, target string) Header {
	return Header{ID: id.NewMessageID(), Sender: sender, Target: target}
}

// Envelope returns the routing header
func (h Header) Envelope() Header { return h }

// Message is implemented by every message type in this package
type Message interface {
	Kind() Kind
	Envelope() Header
	sealed()
}

// Switch asks an application to come to the foreground and show a window
type Switch struct {
	Header
	TargetApp    string
	TargetWindow string
	Data         *Handoff
}

// NewSwitch creates a switch request delivered to targetApp
func NewSwitch(sender, targetApp, targetWindow string, data SwitchData) *Switch {
	return &Switch{
		Header:       NewHeader(sender, targetApp),
		TargetApp:    targetApp,
		TargetWindow: targetWindow,
		Data:         Hand(data),
	}
}

// SwitchWindow asks an application to navigate between its own windows
type SwitchWindow struct {
	Header
	Window                     string
	SenderWindow               string
	Mode                       types.ShowMode
	Data                       *Handoff
	IgnoreCurrentWindowOnStack bool
}

// Refresh asks an application to re-render a window
type Refresh struct {
	Header
	Window string
	Mode   types.RefreshMode
}

// Rebuild asks an application to reconstruct every window it holds
type Rebuild struct {
	Header
}

// Input delivers a key event
type Input struct {
	Header
	Event input.Event
}

// LostFocus tells an application another one took the foreground
type LostFocus struct {
	Header
}

// ActionRequest asks an application to perform a user action
type ActionRequest struct {
	Header
	Action action.ID
	Params action.Params
}

// Close asks an application to deactivate
type Close struct {
	Header
}

// SettingChanged reports a new value of a watched setting
type SettingChanged struct {
	Header
	Key   string
	Value string
}

// LongPressTick is a tick of an application's long-press timer
type LongPressTick struct {
	Header
	Time time.Time
}

// BatteryStatus reports battery charge and charger state
type BatteryStatus struct {
	Header
	Level    uint8
	Charging bool
}

// SIMState reports SIM card presence
type SIMState struct {
	Header
	Present bool
}

// SignalStrength reports signal bars
type SignalStrength struct {
	Header
	Bars int
}

// NetworkAccess reports the network access technology
type NetworkAccess struct {
	Header
	Technology types.AccessTechnology
}

// MinuteTick is sent when the wall clock minute changes
type MinuteTick struct {
	Header
	Time time.Time
}

// Draw carries a window's draw list to the renderer
type Draw struct {
	Header
	Window   string
	Commands []types.DrawCommand
	Mode     types.RefreshMode
	Tag      types.DrawTag
}

func (*Switch) Kind() Kind         { return KindSwitch }
func (*SwitchWindow) Kind() Kind   { return KindSwitchWindow }
func (*Refresh) Kind() Kind        { return KindRefresh }
func (*Rebuild) Kind() Kind        { return KindRebuild }
func (*Input) Kind() Kind          { return KindInput }
func (*LostFocus) Kind() Kind      { return KindLostFocus }
func (*ActionRequest) Kind() Kind  { return KindAction }
func (*Close) Kind() Kind          { return KindClose }
func (*SettingChanged) Kind() Kind { return KindSettingChanged }
func (*LongPressTick) Kind() Kind  { return KindLongPressTick }
func (*BatteryStatus) Kind() Kind  { return KindBatteryStatus }
func (*SIMState) Kind() Kind       { return KindSIMState }
func (*SignalStrength) Kind() Kind { return KindSignalStrength }
func (*NetworkAccess) Kind() Kind  { return KindNetworkAccess }
func (*MinuteTick) Kind() Kind     { return KindMinuteTick }
func (*Draw) Kind() Kind           { return KindDraw }

func (*Switch) sealed()         {}
func (*SwitchWindow) sealed()   {}
func (*Refresh) sealed()        {}
func (*Rebuild) sealed()        {}
func (*Input) sealed()          {}
func (*LostFocus) sealed()      {}
func (*ActionRequest) sealed()  {}
func (*Close) sealed()          {}
func (*SettingChanged) sealed() {}
func (*LongPressTick) sealed()  {}
func (*BatteryStatus) sealed()  {}
func (*SIMState) sealed()       {}
func (*SignalStrength) sealed() {}
func (*NetworkAccess) sealed()  {}
func (*MinuteTick) sealed()     {}
func (*Draw) sealed()           {}
