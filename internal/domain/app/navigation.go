package app

import (
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/domain/window"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// SwitchWindow asks the application to show window name. The request is
// posted to the application itself, so it runs after every message already
// queued. An empty name targets the window currently shown.
func (a *Application) SwitchWindow(name string, mode types.ShowMode, data message.SwitchData) {
	a.switchWindow(name, mode, data, false)
}

// ReplaceWindow is SwitchWindow that drops the current window from the
// history first, so returning from name skips it.
func (a *Application) ReplaceWindow(name string, mode types.ShowMode, data message.SwitchData) {
	a.switchWindow(name, mode, data, true)
}

func (a *Application) switchWindow(name string, mode types.ShowMode, data message.SwitchData, ignoreCurrent bool) {
	current, _ := a.stack.Top()
	a.post(&message.SwitchWindow{
		Header:                     message.NewHeader(a.name, a.name),
		Window:                     name,
		SenderWindow:               current,
		Mode:                       mode,
		Data:                       message.Hand(data),
		IgnoreCurrentWindowOnStack: ignoreCurrent,
	})
}

func (a *Application) handleSwitchWindow(m *message.SwitchWindow) bool {
	target := m.Window
	if target == "" {
		if top, ok := a.stack.Top(); ok {
			target = top
		} else {
			target = a.defaultWindow
		}
	}

	if !a.factory.IsRegistered(target) {
		a.logger.Error("switch to unregistered window",
			zap.String("window", target),
			zap.String("sender_window", m.SenderWindow),
		)
		a.metrics.RecordWindowSwitch(a.name, false)
		return true
	}

	outgoing, shown := a.stack.Top()
	if m.IgnoreCurrentWindowOnStack {
		if prev, ok := a.stack.Prev(1); ok {
			a.stack.PopTo(prev)
		}
	}

	fresh := !shown || outgoing != target
	if fresh && shown {
		if w, ok := a.stack.Get(outgoing); ok {
			w.OnClose()
		}
	}

	if err := a.pushWindow(target); err != nil {
		a.logger.Error("failed to open window", zap.String("window", target), zap.Error(err))
		return true
	}
	a.metrics.RecordWindowSwitch(a.name, true)

	w, _ := a.stack.Get(target)
	data := m.Data.Take()
	w.HandleSwitchData(data)
	w.OnBeforeShow(m.Mode, data)

	mode := types.RefreshFast
	if fresh {
		mode = types.RefreshDeep
	}
	a.render(mode)
	return true
}

// PushWindow makes name the top of the history. A name already in the
// history truncates everything above it; otherwise the window is built on
// first use and appended.
func (a *Application) PushWindow(name string) error {
	return a.pushWindow(name)
}

func (a *Application) pushWindow(name string) error {
	return a.stack.Push(name, func() (window.Window, error) {
		return a.factory.Build(name)
	})
}

// ReturnToPreviousWindow goes back times entries in the history. When the
// history is not that deep the controller is asked to switch back to the
// previous application instead.
func (a *Application) ReturnToPreviousWindow(times int) {
	prev, ok := a.stack.Prev(times)
	if !ok {
		if a.controller != nil {
			a.controller.SwitchBack(a.name)
		}
		return
	}
	a.SwitchWindow(prev, types.ShowReturn, nil)
}

// PrevWindow returns the name count entries below the top of the history
func (a *Application) PrevWindow(count int) (string, bool) {
	return a.stack.Prev(count)
}

// CurrentWindow returns the window on top of the history, opening the
// default window when the history is empty
func (a *Application) CurrentWindow() (window.Window, error) {
	if a.stack.Empty() {
		if err := a.pushWindow(a.defaultWindow); err != nil {
			return nil, err
		}
	}
	top, _ := a.stack.Top()
	w, _ := a.stack.Get(top)
	return w, nil
}

// WindowHistory returns the navigation history, oldest first
func (a *Application) WindowHistory() []string {
	return a.stack.Names()
}

func (a *Application) handleRebuild() bool {
	err := a.stack.Rebuild(func(name string) (window.Window, error) {
		return a.factory.Build(name)
	})
	if err != nil {
		a.logger.Error("failed to rebuild windows", zap.Error(err))
	}

	if a.State() == types.StateActiveForeground {
		a.render(types.RefreshDeep)
	}
	return true
}
