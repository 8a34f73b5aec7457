package window

import (
	"fmt"
	"time"

	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// MainWindow is the name of the window shown when nothing else was asked for
const MainWindow = "MainWindow"

// Window is a screen owned by an application's stack.
// The Update* predicates return true when the new value changes what the
// window shows, i.e. when a re-render is warranted.
type Window interface {
	Name() string

	OnBeforeShow(mode types.ShowMode, data message.SwitchData)
	OnClose()
	HandleSwitchData(data message.SwitchData) bool
	OnInput(ev input.Event) bool
	BuildDrawList() []types.DrawCommand

	UpdateBatteryStatus(level uint8, charging bool) bool
	UpdateSIM(present bool) bool
	UpdateSignalStrength(bars int) bool
	UpdateNetworkAccess(tech types.AccessTechnology) bool
	UpdateTime(now time.Time, format12 bool) bool
}

// Base implements Window with a status bar model and no-op hooks.
// Concrete windows embed it and override what they need.
type Base struct {
	name       string
	indicators types.Indicators
	clock      string
}

// NewBase creates a base window named name
func NewBase(name string) Base {
	return Base{name: name}
}

func (b *Base) Name() string { return b.name }

func (b *Base) OnBeforeShow(types.ShowMode, message.SwitchData) {}

func (b *Base) OnClose() {}

func (b *Base) HandleSwitchData(message.SwitchData) bool { return false }

func (b *Base) OnInput(input.Event) bool { return false }

// BuildDrawList draws the status bar
func (b *Base) BuildDrawList() []types.DrawCommand {
	return b.StatusBar()
}

// Indicators returns the values last pushed into the window
func (b *Base) Indicators() types.Indicators { return b.indicators }

func (b *Base) UpdateBatteryStatus(level uint8, charging bool) bool {
	if b.indicators.BatteryLevel == level && b.indicators.Charging == charging {
		return false
	}
	b.indicators.BatteryLevel = level
	b.indicators.Charging = charging
	return true
}

func (b *Base) UpdateSIM(present bool) bool {
	if b.indicators.SIMPresent == present {
		return false
	}
	b.indicators.SIMPresent = present
	return true
}

func (b *Base) UpdateSignalStrength(bars int) bool {
	if b.indicators.SignalStrength == bars {
		return false
	}
	b.indicators.SignalStrength = bars
	return true
}

func (b *Base) UpdateNetworkAccess(tech types.AccessTechnology) bool {
	if b.indicators.Network == tech {
		return false
	}
	b.indicators.Network = tech
	return true
}

func (b *Base) UpdateTime(now time.Time, format12 bool) bool {
	layout := "15:04"
	if format12 {
		layout = "3:04 PM"
	}
	clock := now.Format(layout)
	if clock == b.clock {
		return false
	}
	b.clock = clock
	return true
}

// StatusBar returns draw commands for the indicators and clock
func (b *Base) StatusBar() []types.DrawCommand {
	sim := "no sim"
	if b.indicators.SIMPresent {
		sim = "sim"
	}
	battery := fmt.Sprintf("%d%%", b.indicators.BatteryLevel)
	if b.indicators.Charging {
		battery += "+"
	}
	return []types.DrawCommand{
		{Op: "text", Area: types.Rect{X: 0, Y: 0, W: 120, H: 20}, Text: fmt.Sprintf("%s %d %s", sim, b.indicators.SignalStrength, b.indicators.Network)},
		{Op: "text", Area: types.Rect{X: 200, Y: 0, W: 80, H: 20}, Text: b.clock},
		{Op: "text", Area: types.Rect{X: 380, Y: 0, W: 100, H: 20}, Text: battery},
	}
}
