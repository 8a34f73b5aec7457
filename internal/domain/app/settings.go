package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// settingWatcher returns a settings callback that forwards the new value to
// the actor as a message
func (a *Application) settingWatcher(key string) func(value string) {
	return func(value string) {
		a.post(&message.SettingChanged{
			Header: message.NewHeader(a.name, a.name),
			Key:    key,
			Value:  value,
		})
	}
}

// SetTimeFormat12 stores the global clock format
func (a *Application) SetTimeFormat12(on bool) error {
	value := types.TimeFormat24
	if on {
		value = types.TimeFormat12
	}
	return a.setGlobal(types.SettingTimeFormat, value)
}

// TimeFormat12 reports whether clocks use the 12 hour format
func (a *Application) TimeFormat12() bool { return a.timeFormat12 }

// SetLockScreenPasscodeOn stores whether unlocking requires a passcode
func (a *Application) SetLockScreenPasscodeOn(on bool) error {
	value := types.SettingOff
	if on {
		value = types.SettingOn
	}
	return a.setGlobal(types.SettingLockPasscodeEnabled, value)
}

// LockScreenPasscodeOn reports whether unlocking requires a passcode
func (a *Application) LockScreenPasscodeOn() bool { return a.lockScreenPasscodeIsOn }

func (a *Application) setGlobal(key, value string) error {
	if a.settings == nil {
		return fmt.Errorf("no settings store for %s", key)
	}
	if err := a.settings.Set(key, value, types.ScopeGlobal); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// SetSuspendFlag marks the next render as the last one before suspend
func (a *Application) SetSuspendFlag(on bool) { a.suspendInProgress.Store(on) }

// SetShutdownFlag marks renders as happening during shutdown
func (a *Application) SetShutdownFlag(on bool) { a.shutdownInProgress.Store(on) }

// ToggleIndicator switches a hardware indicator and blocks until the
// telemetry service answers or the indicator timeout passes. On failure
// nothing changes locally.
func (a *Application) ToggleIndicator(ctx context.Context, indicator types.Indicator, on bool) error {
	if a.telemetry == nil {
		return fmt.Errorf("no telemetry service for %s", indicator)
	}

	ctx, cancel := context.WithTimeout(ctx, a.indicatorTimeout)
	defer cancel()

	if err := a.telemetry.Toggle(ctx, indicator, on); err != nil {
		a.logger.Warn("indicator toggle abandoned",
			zap.String("indicator", string(indicator)),
			zap.Bool("on", on),
			zap.Error(err),
		)
		return fmt.Errorf("toggle %s: %w", indicator, err)
	}
	return nil
}
