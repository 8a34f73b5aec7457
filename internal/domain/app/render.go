package app

import (
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// RendererAddress is the bus name of the rendering service
const RendererAddress = "ServiceGUI"

// Render draws the current window. Nothing is drawn unless the application
// is in the foreground with a window on the stack.
func (a *Application) Render(mode types.RefreshMode) {
	a.render(mode)
}

func (a *Application) render(mode types.RefreshMode) {
	if a.stack.Empty() {
		a.metrics.RecordRenderSkipped(a.name, "empty_stack")
		return
	}
	if a.State() != types.StateActiveForeground {
		a.metrics.RecordRenderSkipped(a.name, "not_foreground")
		return
	}

	w, err := a.CurrentWindow()
	if err != nil {
		a.logger.Error("no window to render", zap.Error(err))
		return
	}

	if a.telemetry != nil {
		ind := a.telemetry.Indicators()
		w.UpdateBatteryStatus(ind.BatteryLevel, ind.Charging)
		w.UpdateSIM(ind.SIMPresent)
		w.UpdateSignalStrength(ind.SignalStrength)
		w.UpdateNetworkAccess(ind.Network)
	}

	tag := types.DrawNormal
	switch {
	case a.shutdownInProgress.Load():
		tag = types.DrawShutdown
	case a.suspendInProgress.Load():
		tag = types.DrawSuspend
	}

	draw := &message.Draw{
		Header:   message.NewHeader(a.name, RendererAddress),
		Window:   w.Name(),
		Commands: w.BuildDrawList(),
		Mode:     mode,
		Tag:      tag,
	}

	if a.renderer == nil {
		a.logger.Error("no renderer attached", zap.String("window", draw.Window))
	} else if err := a.renderer.Draw(draw); err != nil {
		a.logger.Error("render failed",
			zap.String("window", draw.Window),
			zap.Stringer("mode", mode),
			zap.Error(err),
		)
	} else {
		a.metrics.RecordRender(a.name, mode.String(), tag.String())
	}

	a.suspendInProgress.Store(false)
}

// RefreshWindow asks for the current window to be redrawn. The request is
// posted to the application itself and dropped if another window is shown
// by the time it is handled. A Refresh naming no window redraws whatever
// is on top.
func (a *Application) RefreshWindow(mode types.RefreshMode) {
	a.refreshWindow(mode)
}

func (a *Application) refreshWindow(mode types.RefreshMode) {
	current, ok := a.stack.Top()
	if !ok {
		return
	}
	a.post(&message.Refresh{
		Header: message.NewHeader(a.name, a.name),
		Window: current,
		Mode:   mode,
	})
}

func (a *Application) handleRefresh(m *message.Refresh) bool {
	current, ok := a.stack.Top()
	if !ok || (m.Window != "" && current != m.Window) {
		a.logger.Debug("dropping stale refresh",
			zap.String("window", m.Window),
			zap.String("current", current),
		)
		return false
	}
	a.render(m.Mode)
	return true
}
