package app

import (
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/domain/window"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// Handle processes one message and reports whether it was handled. It is
// called by the bus from the application's own goroutine only.
func (a *Application) Handle(msg message.Message) bool {
	switch m := msg.(type) {
	case *message.Switch:
		return a.handleApplicationSwitch(m)
	case *message.SwitchWindow:
		return a.handleSwitchWindow(m)
	case *message.Refresh:
		return a.handleRefresh(m)
	case *message.Rebuild:
		return a.handleRebuild()
	case *message.Input:
		return a.handleInput(m.Event)
	case *message.LongPressTick:
		return a.handleLongPressTick(m)
	case *message.LostFocus:
		return a.handleLostFocus()
	case *message.ActionRequest:
		return a.handleAction(m)
	case *message.Close:
		return a.handleClose()
	case *message.SettingChanged:
		return a.handleSettingChanged(m)
	case *message.BatteryStatus:
		return a.updateIndicator(func(w window.Window) bool { return w.UpdateBatteryStatus(m.Level, m.Charging) })
	case *message.SIMState:
		return a.updateIndicator(func(w window.Window) bool { return w.UpdateSIM(m.Present) })
	case *message.SignalStrength:
		return a.updateIndicator(func(w window.Window) bool { return w.UpdateSignalStrength(m.Bars) })
	case *message.NetworkAccess:
		return a.updateIndicator(func(w window.Window) bool { return w.UpdateNetworkAccess(m.Technology) })
	case *message.MinuteTick:
		return a.updateIndicator(func(w window.Window) bool { return w.UpdateTime(m.Time, a.timeFormat12) })
	case *message.Draw:
		a.logger.Error("draw request delivered to an application", zap.String("sender", m.Sender))
		return false
	default:
		a.logger.Error("unknown message", zap.Stringer("kind", msg.Kind()))
		return false
	}
}

func (a *Application) handleApplicationSwitch(m *message.Switch) bool {
	if m.TargetApp != a.name {
		a.logger.Error("switch addressed to another application",
			zap.String("target", m.TargetApp),
			zap.String("sender", m.Sender),
		)
		return false
	}

	target := m.TargetWindow
	if target == "" {
		target = a.defaultWindow
	}

	switch state := a.State(); state {
	case types.StateInitializing, types.StateActivating, types.StateActiveBackground:
		a.setState(types.StateActiveForeground)
		if a.controller != nil && !a.controller.ConfirmSwitch(a.name) {
			a.logger.Error("switch not confirmed by controller",
				zap.Stringer("from", state),
				zap.String("window", target),
			)
			return false
		}
		a.switchWindow(target, types.ShowInit, m.Data.Take(), false)
		return true

	case types.StateActiveForeground:
		a.switchWindow(target, types.ShowInit, m.Data.Take(), false)
		return true

	default:
		a.logger.Error("switch in unexpected state",
			zap.Stringer("state", state),
			zap.String("window", target),
		)
		return false
	}
}

func (a *Application) handleLostFocus() bool {
	if a.State() != types.StateActiveForeground {
		return true
	}

	a.setState(types.StateActiveBackground)
	if a.controller != nil {
		a.controller.ConfirmSwitch(a.name)
	}
	return true
}

func (a *Application) handleClose() bool {
	if a.shutdownInProgress.Load() {
		a.render(types.RefreshDeep)
	}
	a.setState(types.StateDeactivating)
	if a.controller != nil {
		a.controller.ConfirmClose(a.name)
	}
	return true
}

func (a *Application) handleAction(m *message.ActionRequest) bool {
	a.metrics.RecordAction(m.Action.String(), a.router.Has(m.Action))
	return a.router.Handle(m.Action, m.Params)
}

func (a *Application) handleInput(ev input.Event) bool {
	if a.State() != types.StateActiveForeground {
		a.logger.Error("key event while not in foreground",
			zap.Bool("foreground", false),
			zap.Stringer("state", a.State()),
			zap.Stringer("event", ev),
		)
	}

	switch a.longPress.OnKey(ev) {
	case input.OutcomeArmed:
		a.longPressTimer.Start()
	case input.OutcomeCanceled:
		a.longPressTimer.Stop()
	}

	w, err := a.CurrentWindow()
	if err != nil {
		a.logger.Error("no window for input", zap.Error(err))
		return false
	}
	if w.OnInput(ev) {
		a.refreshWindow(types.RefreshFast)
	}
	return true
}

func (a *Application) handleLongPressTick(m *message.LongPressTick) bool {
	ev, outcome := a.longPress.OnTick(m.Time)
	switch {
	case outcome == input.OutcomeExpired:
		a.longPressTimer.Stop()
		a.post(&message.Input{Header: message.NewHeader(a.name, a.name), Event: ev})
	case a.longPress.Phase() == input.PhaseIdle:
		// late tick from a timer that was already stopped
		a.longPressTimer.Stop()
	}
	return true
}

func (a *Application) handleSettingChanged(m *message.SettingChanged) bool {
	switch m.Key {
	case types.SettingTimeFormat:
		a.timeFormat12 = m.Value == types.TimeFormat12
		a.updateIndicator(func(w window.Window) bool { return w.UpdateTime(a.clock(), a.timeFormat12) })
	case types.SettingLockPasscodeEnabled:
		a.lockScreenPasscodeIsOn = m.Value == types.SettingOn
	default:
		a.logger.Debug("ignoring setting", zap.String("key", m.Key))
		return false
	}
	return true
}

// updateIndicator pushes a telemetry value into the shown window and asks
// for a refresh when the window reports a visible change. Nothing happens
// while the app is not in the foreground.
func (a *Application) updateIndicator(update func(w window.Window) bool) bool {
	if a.State() != types.StateActiveForeground || a.stack.Empty() {
		return true
	}
	w, err := a.CurrentWindow()
	if err != nil {
		return true
	}
	if update(w) {
		a.refreshWindow(types.RefreshFast)
	}
	return true
}
