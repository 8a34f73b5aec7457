package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/action"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/bus"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// Name is the bus address the manager sends from
const Name = "ApplicationManager"

var (
	ErrAlreadyRunning = errors.New("application already running")
	ErrUnknownApp     = errors.New("application not running")
	ErrUnsupported    = errors.New("not supported by application")
)

// Runtime is an application as the manager drives it
type Runtime interface {
	Name() string
	Handle(msg message.Message) bool
	State() types.State
	Parent() string
	StartInBackground() bool
	InitHandler() error
	DeinitHandler() error
}

// PowerAware runtimes tag the frames they draw around suspend and shutdown
type PowerAware interface {
	SetSuspendFlag(on bool)
	SetShutdownFlag(on bool)
}

// IndicatorSwitch runs a hardware indicator toggle on behalf of an application
type IndicatorSwitch interface {
	ToggleIndicator(ctx context.Context, indicator types.Indicator, on bool) error
}

// Bus is the subset of the message bus the manager needs
type Bus interface {
	Register(h bus.Handler) error
	Unregister(name string) error
	Send(msg message.Message) error
}

type entry struct {
	info types.AppInfo
	app  Runtime
}

// Manager launches applications and arbitrates which one is in the
// foreground. It implements the app.Controller contract.
type Manager struct {
	mu      sync.RWMutex
	apps    map[string]*entry // Protected by mu
	focused string            // Protected by mu
	history []string          // Protected by mu, most recent last

	bus     Bus
	logger  *zap.Logger
	metrics *monitoring.Metrics
	closing sync.WaitGroup
}

// NewManager creates a manager sending through b
func NewManager(b Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		apps:   make(map[string]*entry),
		bus:    b,
		logger: logger.Named("manager"),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Launch initialises rt, starts its actor and, unless it starts in the
// background, switches to it
func (m *Manager) Launch(rt Runtime) (types.AppInfo, error) {
	name := rt.Name()

	m.mu.Lock()
	if _, exists := m.apps[name]; exists {
		m.mu.Unlock()
		return types.AppInfo{}, fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}
	e := &entry{
		app: rt,
		info: types.AppInfo{
			ID:                uuid.New().String(),
			Name:              name,
			Parent:            rt.Parent(),
			StartInBackground: rt.StartInBackground(),
			LaunchedAt:        time.Now(),
		},
	}
	m.apps[name] = e
	m.mu.Unlock()

	if err := rt.InitHandler(); err != nil {
		m.forget(name)
		return types.AppInfo{}, fmt.Errorf("failed to initialise %s: %w", name, err)
	}

	if err := m.bus.Register(rt); err != nil {
		m.forget(name)
		return types.AppInfo{}, fmt.Errorf("failed to start %s: %w", name, err)
	}
	m.updateGauge()

	m.logger.Info("application launched",
		zap.String("app", name),
		zap.String("id", e.info.ID),
		zap.Bool("background", e.info.StartInBackground),
	)

	if !e.info.StartInBackground {
		if err := m.SwitchTo(name, "", nil); err != nil {
			return e.info, err
		}
	}

	info, _ := m.Get(name)
	return info, nil
}

// SwitchTo asks app to come to the foreground showing window
func (m *Manager) SwitchTo(app, window string, data message.SwitchData) error {
	if !m.running(app) {
		return fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
	return m.bus.Send(message.NewSwitch(Name, app, window, data))
}

// Action sends an action request to app
func (m *Manager) Action(app string, id action.ID, params action.Params) error {
	if !m.running(app) {
		return fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
	return m.bus.Send(&message.ActionRequest{
		Header: message.NewHeader(Name, app),
		Action: id,
		Params: params,
	})
}

// Close asks app and every app it launched to deactivate
func (m *Manager) Close(app string) error {
	m.mu.RLock()
	if _, ok := m.apps[app]; !ok {
		m.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
	targets := []string{app}
	for name, e := range m.apps {
		if e.info.Parent == app {
			targets = append(targets, name)
		}
	}
	m.mu.RUnlock()

	var errs []error
	for _, name := range targets {
		if err := m.bus.Send(&message.Close{Header: message.NewHeader(Name, name)}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Rebuild asks app to reconstruct its windows
func (m *Manager) Rebuild(app string) error {
	if !m.running(app) {
		return fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
	return m.bus.Send(&message.Rebuild{Header: message.NewHeader(Name, app)})
}

// Suspend marks the next frame of app as the last before suspend and asks
// for a deep redraw of its shown window
func (m *Manager) Suspend(app string) error {
	rt, err := m.runtime(app)
	if err != nil {
		return err
	}
	pa, ok := rt.(PowerAware)
	if !ok {
		return fmt.Errorf("%w: suspend %s", ErrUnsupported, app)
	}
	pa.SetSuspendFlag(true)
	return m.bus.Send(&message.Refresh{
		Header: message.NewHeader(Name, app),
		Mode:   types.RefreshDeep,
	})
}

// ToggleIndicator switches a hardware indicator through app
func (m *Manager) ToggleIndicator(ctx context.Context, app string, indicator types.Indicator, on bool) error {
	rt, err := m.runtime(app)
	if err != nil {
		return err
	}
	sw, ok := rt.(IndicatorSwitch)
	if !ok {
		return fmt.Errorf("%w: indicators %s", ErrUnsupported, app)
	}
	return sw.ToggleIndicator(ctx, indicator, on)
}

// ApplicationInitialised records that app finished InitHandler
func (m *Manager) ApplicationInitialised(app string, ok bool, startInBackground bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.apps[app]
	if !exists {
		m.logger.Warn("initialised application is unknown", zap.String("app", app))
		return
	}
	e.info.Initialised = ok

	if !ok {
		m.logger.Error("application failed to initialise", zap.String("app", app))
	}
}

// ConfirmSwitch is called by an application that either took the
// foreground or acknowledged losing it. Taking the foreground sends
// LostFocus to the previously focused application.
func (m *Manager) ConfirmSwitch(app string) bool {
	m.mu.Lock()
	e, exists := m.apps[app]
	if !exists || e.info.Closing {
		m.mu.Unlock()
		m.logger.Error("switch confirmation from inactive application", zap.String("app", app))
		return false
	}

	if e.app.State() != types.StateActiveForeground {
		e.info.Focused = false
		m.mu.Unlock()
		m.logger.Debug("application moved to background", zap.String("app", app))
		return true
	}

	prev := m.focused
	if p, ok := m.apps[prev]; ok && prev != app {
		p.info.Focused = false
	}
	m.focused = app
	e.info.Focused = true
	m.touchHistory(app)
	m.mu.Unlock()

	if prev != "" && prev != app {
		if err := m.bus.Send(&message.LostFocus{Header: message.NewHeader(Name, prev)}); err != nil {
			m.logger.Warn("failed to notify previous application", zap.String("app", prev), zap.Error(err))
		}
	}

	m.logger.Debug("application focused", zap.String("app", app), zap.String("previous", prev))
	return true
}

// ConfirmClose finishes closing app. The actor is stopped from another
// goroutine because this call arrives on the actor's own goroutine.
func (m *Manager) ConfirmClose(app string) {
	m.mu.Lock()
	e, exists := m.apps[app]
	if !exists || e.info.Closing {
		m.mu.Unlock()
		return
	}
	e.info.Closing = true
	m.mu.Unlock()

	m.closing.Add(1)
	go func() {
		defer m.closing.Done()
		m.finishClose(app, e.app)
	}()
}

func (m *Manager) finishClose(app string, rt Runtime) {
	if err := m.bus.Unregister(app); err != nil {
		m.logger.Warn("failed to stop application actor", zap.String("app", app), zap.Error(err))
	}
	if err := rt.DeinitHandler(); err != nil {
		m.logger.Warn("application deinit failed", zap.String("app", app), zap.Error(err))
	}

	m.mu.Lock()
	delete(m.apps, app)
	m.dropHistory(app)
	next := ""
	if m.focused == app {
		m.focused = ""
		if len(m.history) > 0 {
			next = m.history[len(m.history)-1]
		}
	}
	m.mu.Unlock()
	m.updateGauge()

	m.logger.Info("application closed", zap.String("app", app))

	if next != "" {
		if err := m.SwitchTo(next, "", nil); err != nil {
			m.logger.Warn("failed to refocus application", zap.String("app", next), zap.Error(err))
		}
	}
}

// SwitchBack returns to the application focused before app
func (m *Manager) SwitchBack(app string) {
	m.mu.RLock()
	prev := ""
	for i := len(m.history) - 1; i > 0; i-- {
		if m.history[i] == app {
			prev = m.history[i-1]
			break
		}
	}
	m.mu.RUnlock()

	if prev == "" {
		m.logger.Warn("no application to switch back to", zap.String("app", app))
		return
	}
	if err := m.SwitchTo(prev, "", nil); err != nil {
		m.logger.Warn("switch back failed", zap.String("app", prev), zap.Error(err))
	}
}

// Wait blocks until pending closes finish or ctx is done
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.closing.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown closes every application and waits for them to stop. The
// foreground application draws one last frame tagged for shutdown.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	for _, e := range m.apps {
		if pa, ok := e.app.(PowerAware); ok {
			pa.SetShutdownFlag(true)
		}
	}
	m.mu.RUnlock()

	for _, info := range m.List() {
		if err := m.Close(info.Name); err != nil && !errors.Is(err, ErrUnknownApp) {
			m.logger.Warn("failed to close application", zap.String("app", info.Name), zap.Error(err))
		}
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := m.Wait(ctx); err != nil {
			return err
		}
		if m.Stats().TotalApps == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Get retrieves an application by name
func (m *Manager) Get(app string) (types.AppInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.apps[app]
	if !ok {
		return types.AppInfo{}, false
	}
	return e.info, true
}

// List returns every running application sorted by name
func (m *Manager) List() []types.AppInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apps := make([]types.AppInfo, 0, len(m.apps))
	for _, e := range m.apps {
		apps = append(apps, e.info)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	return apps
}

// Focused returns the name of the foreground application
func (m *Manager) Focused() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// Stats returns manager statistics
func (m *Manager) Stats() types.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var background int
	for _, e := range m.apps {
		if e.app.State() == types.StateActiveBackground {
			background++
		}
	}

	var focused *string
	if m.focused != "" {
		name := m.focused
		focused = &name
	}

	return types.Stats{
		TotalApps:      len(m.apps),
		BackgroundApps: background,
		FocusedApp:     focused,
		FocusHistory:   append([]string(nil), m.history...),
	}
}

func (m *Manager) runtime(app string) (Runtime, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.apps[app]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
	return e.app, nil
}

func (m *Manager) running(app string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.apps[app]
	return ok && !e.info.Closing
}

func (m *Manager) forget(app string) {
	m.mu.Lock()
	delete(m.apps, app)
	m.mu.Unlock()
}

// touchHistory moves app to the end of the focus history (must hold lock)
func (m *Manager) touchHistory(app string) {
	m.dropHistory(app)
	m.history = append(m.history, app)
}

// dropHistory removes app from the focus history (must hold lock)
func (m *Manager) dropHistory(app string) {
	out := m.history[:0]
	for _, name := range m.history {
		if name != app {
			out = append(out, name)
		}
	}
	m.history = out
}

func (m *Manager) updateGauge() {
	m.mu.RLock()
	count := len(m.apps)
	m.mu.RUnlock()
	m.metrics.SetAppsRunning(count)
}
