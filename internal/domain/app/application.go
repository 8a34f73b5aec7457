package app

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/action"
	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/domain/window"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// Controller is the application manager as seen by an application. It may
// veto a switch, in which case the application does not navigate.
type Controller interface {
	ApplicationInitialised(app string, ok bool, startInBackground bool)
	ConfirmSwitch(app string) bool
	ConfirmClose(app string)
	SwitchBack(app string)
}

// Poster delivers messages to actors, including the sender itself
type Poster interface {
	Send(msg message.Message) error
}

// Renderer receives draw lists
type Renderer interface {
	Draw(d *message.Draw) error
}

// Telemetry provides the status bar snapshot and hardware indicator control
type Telemetry interface {
	Indicators() types.Indicators
	Toggle(ctx context.Context, indicator types.Indicator, on bool) error
}

// Settings is a key/value store notifying watchers of changes
type Settings interface {
	Get(key string, scope types.SettingScope) (string, bool)
	Register(key string, scope types.SettingScope, cb func(value string)) (cancel func())
	Set(key, value string, scope types.SettingScope) error
}

// Options configures an Application
type Options struct {
	Name              string
	Parent            string
	StartInBackground bool
	// DefaultWindow is shown when a switch names no window. Defaults to window.MainWindow.
	DefaultWindow string

	LongPressThreshold time.Duration
	// LongPressPoll is the tick period of the long-press timer
	LongPressPoll    time.Duration
	IndicatorTimeout time.Duration

	Controller Controller
	Bus        Poster
	Renderer   Renderer
	Telemetry  Telemetry
	Settings   Settings

	Logger  *zap.Logger
	Metrics *monitoring.Metrics

	// LongPressTimer replaces the ticker posting LongPressTick messages
	LongPressTimer input.Timer
	Clock          func() time.Time
}

// Application is one user-facing app: a window stack driven by messages.
//
// State and the power flags may be read or set from any goroutine. The rest
// belongs to the actor goroutine: InitHandler runs before the actor is
// registered on the bus and DeinitHandler after it is unregistered.
type Application struct {
	name              string
	parent            string
	startInBackground bool
	defaultWindow     string
	indicatorTimeout  time.Duration

	state atomic.Int32

	stack   *window.Stack
	factory *window.Factory
	router  *action.Router

	longPress      *input.LongPress
	longPressTimer input.Timer

	suspendInProgress  atomic.Bool
	shutdownInProgress atomic.Bool

	timeFormat12           bool
	lockScreenPasscodeIsOn bool

	controller Controller
	bus        Poster
	renderer   Renderer
	telemetry  Telemetry
	settings   Settings
	unwatch    []func()

	logger  *zap.Logger
	metrics *monitoring.Metrics
	clock   func() time.Time
}

// New creates a deactivated application
func New(opts Options) *Application {
	if opts.DefaultWindow == "" {
		opts.DefaultWindow = window.MainWindow
	}
	if opts.LongPressThreshold <= 0 {
		opts.LongPressThreshold = time.Second
	}
	if opts.LongPressPoll <= 0 {
		opts.LongPressPoll = 200 * time.Millisecond
	}
	if opts.IndicatorTimeout <= 0 {
		opts.IndicatorTimeout = 1500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	logger := opts.Logger.With(zap.String("app", opts.Name))

	a := &Application{
		name:              opts.Name,
		parent:            opts.Parent,
		startInBackground: opts.StartInBackground,
		defaultWindow:     opts.DefaultWindow,
		indicatorTimeout:  opts.IndicatorTimeout,
		stack:             window.NewStack(),
		factory:           window.NewFactory(),
		router:            action.NewRouter(logger),
		longPress:         input.NewLongPress(opts.LongPressThreshold),
		controller:        opts.Controller,
		bus:               opts.Bus,
		renderer:          opts.Renderer,
		telemetry:         opts.Telemetry,
		settings:          opts.Settings,
		logger:            logger,
		metrics:           opts.Metrics,
		clock:             opts.Clock,
	}
	a.state.Store(int32(types.StateDeactivated))

	a.longPressTimer = opts.LongPressTimer
	if a.longPressTimer == nil {
		a.longPressTimer = input.NewTicker(opts.LongPressPoll, func(now time.Time) {
			a.post(&message.LongPressTick{Header: message.NewHeader(a.name, a.name), Time: now})
		})
	}

	return a
}

// Name returns the application name, which is also its bus address
func (a *Application) Name() string { return a.name }

// Parent returns the name of the application that launched this one
func (a *Application) Parent() string { return a.parent }

// StartInBackground reports whether the app skips the foreground after init
func (a *Application) StartInBackground() bool { return a.startInBackground }

// State returns the lifecycle state. Safe to call from any goroutine.
func (a *Application) State() types.State {
	return types.State(a.state.Load())
}

func (a *Application) setState(state types.State) {
	prev := types.State(a.state.Swap(int32(state)))
	if prev == state {
		return
	}
	a.metrics.RecordTransition(a.name, prev.String(), state.String())
	a.logger.Debug("state changed",
		zap.Stringer("from", prev),
		zap.Stringer("to", state),
	)
}

// AttachWindow registers the builder for a window name
func (a *Application) AttachWindow(name string, builder window.Builder) {
	a.factory.Attach(name, builder)
}

// AddActionReceiver registers the receiver for an action, replacing any previous one
func (a *Application) AddActionReceiver(id action.ID, receiver action.Receiver) {
	a.router.Add(id, receiver)
}

// InitHandler moves the application to Initializing, reads and starts
// watching global settings and reports to the controller. Apps launched in the
// background go straight to ActiveBackground.
func (a *Application) InitHandler() error {
	a.setState(types.StateInitializing)

	if a.settings != nil {
		if v, ok := a.settings.Get(types.SettingTimeFormat, types.ScopeGlobal); ok {
			a.timeFormat12 = v == types.TimeFormat12
		}
		if v, ok := a.settings.Get(types.SettingLockPasscodeEnabled, types.ScopeGlobal); ok {
			a.lockScreenPasscodeIsOn = v == types.SettingOn
		}
		a.unwatch = append(a.unwatch,
			a.settings.Register(types.SettingTimeFormat, types.ScopeGlobal, a.settingWatcher(types.SettingTimeFormat)),
			a.settings.Register(types.SettingLockPasscodeEnabled, types.ScopeGlobal, a.settingWatcher(types.SettingLockPasscodeEnabled)),
		)
	}

	if a.controller != nil {
		a.controller.ApplicationInitialised(a.name, true, a.startInBackground)
	}

	if a.startInBackground {
		a.setState(types.StateActiveBackground)
	}

	a.logger.Info("application initialised", zap.Bool("background", a.startInBackground))
	return nil
}

// DeinitHandler closes every window and clears the stack
func (a *Application) DeinitHandler() error {
	a.longPressTimer.Stop()

	for _, cancel := range a.unwatch {
		if cancel != nil {
			cancel()
		}
	}
	a.unwatch = nil

	a.stack.CloseAll()

	a.logger.Info("application deinitialised")
	return nil
}

// post sends msg through the bus, logging delivery failures
func (a *Application) post(msg message.Message) {
	if a.bus == nil {
		a.logger.Error("no bus to post message", zap.Stringer("kind", msg.Kind()))
		return
	}
	if err := a.bus.Send(msg); err != nil {
		a.logger.Error("failed to post message",
			zap.Stringer("kind", msg.Kind()),
			zap.String("target", msg.Envelope().Target),
			zap.Error(err),
		)
	}
}
