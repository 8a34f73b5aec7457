package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/action"
	"github.com/mudita/MuditaOS-sub019/internal/domain/app"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/domain/window"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/bus"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

const waitFor = 2 * time.Second

type countingRenderer struct {
	mu    sync.Mutex
	draws map[string]int
	tags  map[types.DrawTag]int
}

func (r *countingRenderer) Draw(d *message.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws[d.Sender]++
	r.tags[d.Tag]++
	return nil
}

func (r *countingRenderer) tagged(tag types.DrawTag) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tags[tag]
}

type fixture struct {
	bus      *bus.Bus
	manager  *Manager
	renderer *countingRenderer
	metrics  *monitoring.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bus:      bus.New(zap.NewNop()),
		renderer: &countingRenderer{draws: map[string]int{}, tags: map[types.DrawTag]int{}},
		metrics:  monitoring.NewMetrics(prometheus.NewRegistry()),
	}
	f.manager = NewManager(f.bus, zap.NewNop()).WithMetrics(f.metrics)
	t.Cleanup(f.bus.Close)
	return f
}

func (f *fixture) newApp(name, parent string, background bool) *app.Application {
	a := app.New(app.Options{
		Name:              name,
		Parent:            parent,
		StartInBackground: background,
		Controller:        f.manager,
		Bus:               f.bus,
		Renderer:          f.renderer,
	})
	a.AttachWindow(window.MainWindow, func(name string) window.Window {
		w := window.NewBase(name)
		return &w
	})
	return a
}

func (f *fixture) launch(t *testing.T, name, parent string, background bool) *app.Application {
	t.Helper()
	a := f.newApp(name, parent, background)
	_, err := f.manager.Launch(a)
	require.NoError(t, err)
	if !background {
		require.Eventually(t, func() bool { return f.manager.Focused() == name }, waitFor, time.Millisecond)
	}
	return a
}

func TestLaunchForegroundsApplication(t *testing.T) {
	f := newFixture(t)

	desktop := f.launch(t, "ApplicationDesktop", "", false)

	assert.Equal(t, types.StateActiveForeground, desktop.State())
	info, ok := f.manager.Get("ApplicationDesktop")
	require.True(t, ok)
	assert.True(t, info.Initialised)
	assert.True(t, info.Focused)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AppsRunning))
}

func TestLaunchInBackground(t *testing.T) {
	f := newFixture(t)

	clock := f.launch(t, "ApplicationClock", "", true)

	assert.Equal(t, types.StateActiveBackground, clock.State())
	assert.Empty(t, f.manager.Focused())
}

func TestLaunchTwice(t *testing.T) {
	f := newFixture(t)
	f.launch(t, "ApplicationDesktop", "", false)

	_, err := f.manager.Launch(f.newApp("ApplicationDesktop", "", false))

	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestSwitchMovesPreviousToBackground(t *testing.T) {
	f := newFixture(t)
	desktop := f.launch(t, "ApplicationDesktop", "", false)
	calls := f.launch(t, "ApplicationCall", "", false)

	require.Eventually(t, func() bool {
		return desktop.State() == types.StateActiveBackground
	}, waitFor, time.Millisecond)
	assert.Equal(t, types.StateActiveForeground, calls.State())

	stats := f.manager.Stats()
	assert.Equal(t, 2, stats.TotalApps)
	assert.Equal(t, 1, stats.BackgroundApps)
	require.NotNil(t, stats.FocusedApp)
	assert.Equal(t, "ApplicationCall", *stats.FocusedApp)
	assert.Equal(t, []string{"ApplicationDesktop", "ApplicationCall"}, stats.FocusHistory)

	desktopInfo, _ := f.manager.Get("ApplicationDesktop")
	assert.False(t, desktopInfo.Focused)
}

func TestSwitchBack(t *testing.T) {
	f := newFixture(t)
	desktop := f.launch(t, "ApplicationDesktop", "", false)
	f.launch(t, "ApplicationCall", "", false)

	f.manager.SwitchBack("ApplicationCall")

	require.Eventually(t, func() bool { return f.manager.Focused() == "ApplicationDesktop" }, waitFor, time.Millisecond)
	assert.Equal(t, types.StateActiveForeground, desktop.State())
}

func TestCloseRefocusesPreviousApplication(t *testing.T) {
	f := newFixture(t)
	desktop := f.launch(t, "ApplicationDesktop", "", false)
	calls := f.launch(t, "ApplicationCall", "", false)

	require.NoError(t, f.manager.Close("ApplicationCall"))

	require.Eventually(t, func() bool {
		_, running := f.manager.Get("ApplicationCall")
		return !running && f.manager.Focused() == "ApplicationDesktop"
	}, waitFor, time.Millisecond)

	require.NoError(t, f.manager.Wait(context.Background()))
	assert.Equal(t, types.StateDeactivating, calls.State())
	assert.Empty(t, calls.WindowHistory())
	assert.False(t, f.bus.Has("ApplicationCall"))
	require.Eventually(t, func() bool {
		return desktop.State() == types.StateActiveForeground
	}, waitFor, time.Millisecond)
	assert.Equal(t, []string{"ApplicationDesktop"}, f.manager.Stats().FocusHistory)
}

func TestCloseClosesChildren(t *testing.T) {
	f := newFixture(t)
	f.launch(t, "ApplicationSettings", "", false)
	f.launch(t, "ApplicationSettingsSound", "ApplicationSettings", true)

	require.NoError(t, f.manager.Close("ApplicationSettings"))

	require.Eventually(t, func() bool { return f.manager.Stats().TotalApps == 0 }, waitFor, time.Millisecond)
}

func TestCloseUnknownApplication(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.manager.Close("Nope"), ErrUnknownApp)
	assert.ErrorIs(t, f.manager.SwitchTo("Nope", "", nil), ErrUnknownApp)
	assert.ErrorIs(t, f.manager.Action("Nope", action.Dial, nil), ErrUnknownApp)
}

func TestActionDelivered(t *testing.T) {
	f := newFixture(t)
	phonebook := f.newApp("ApplicationPhonebook", "", false)
	got := make(chan action.Params, 1)
	phonebook.AddActionReceiver(action.ShowContacts, func(params action.Params) error {
		got <- params
		return nil
	})
	_, err := f.manager.Launch(phonebook)
	require.NoError(t, err)

	require.NoError(t, f.manager.Action("ApplicationPhonebook", action.ShowContacts, "favourites"))

	select {
	case params := <-got:
		assert.Equal(t, "favourites", params)
	case <-time.After(waitFor):
		t.Fatal("action not delivered")
	}
}

func TestShutdown(t *testing.T) {
	f := newFixture(t)
	f.launch(t, "ApplicationDesktop", "", false)
	f.launch(t, "ApplicationCall", "", false)
	f.launch(t, "ApplicationClock", "", true)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, f.manager.Shutdown(ctx))

	assert.Empty(t, f.manager.List())
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.AppsRunning))
}

func TestShutdownDrawsFinalFrame(t *testing.T) {
	f := newFixture(t)
	f.launch(t, "ApplicationDesktop", "", false)
	f.launch(t, "ApplicationClock", "", true)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, f.manager.Shutdown(ctx))

	assert.Equal(t, 1, f.renderer.tagged(types.DrawShutdown))
}

func TestSuspendTagsNextFrame(t *testing.T) {
	f := newFixture(t)
	f.launch(t, "ApplicationDesktop", "", false)

	require.NoError(t, f.manager.Suspend("ApplicationDesktop"))
	require.Eventually(t, func() bool {
		return f.renderer.tagged(types.DrawSuspend) == 1
	}, waitFor, time.Millisecond)

	assert.ErrorIs(t, f.manager.Suspend("Missing"), ErrUnknownApp)
}

func TestRebuildRedrawsForegroundApp(t *testing.T) {
	f := newFixture(t)
	f.launch(t, "ApplicationDesktop", "", false)
	require.Eventually(t, func() bool {
		f.renderer.mu.Lock()
		defer f.renderer.mu.Unlock()
		return f.renderer.draws["ApplicationDesktop"] > 0
	}, waitFor, time.Millisecond)

	f.renderer.mu.Lock()
	before := f.renderer.draws["ApplicationDesktop"]
	f.renderer.mu.Unlock()

	require.NoError(t, f.manager.Rebuild("ApplicationDesktop"))
	require.Eventually(t, func() bool {
		f.renderer.mu.Lock()
		defer f.renderer.mu.Unlock()
		return f.renderer.draws["ApplicationDesktop"] > before
	}, waitFor, time.Millisecond)

	assert.ErrorIs(t, f.manager.Rebuild("Missing"), ErrUnknownApp)
}

type toggleCall struct {
	indicator types.Indicator
	on        bool
}

type fakeTelemetry struct {
	mu    sync.Mutex
	calls []toggleCall
}

func (t *fakeTelemetry) Indicators() types.Indicators { return types.Indicators{} }

func (t *fakeTelemetry) Toggle(_ context.Context, indicator types.Indicator, on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, toggleCall{indicator, on})
	return nil
}

type plainRuntime struct{ name string }

func (p plainRuntime) Name() string                { return p.name }
func (p plainRuntime) Handle(message.Message) bool { return true }
func (p plainRuntime) State() types.State          { return types.StateActiveBackground }
func (p plainRuntime) Parent() string              { return "" }
func (p plainRuntime) StartInBackground() bool     { return true }
func (p plainRuntime) InitHandler() error          { return nil }
func (p plainRuntime) DeinitHandler() error        { return nil }

func TestToggleIndicator(t *testing.T) {
	f := newFixture(t)
	telemetry := &fakeTelemetry{}
	a := app.New(app.Options{
		Name:              "ApplicationTorch",
		StartInBackground: true,
		Controller:        f.manager,
		Bus:               f.bus,
		Renderer:          f.renderer,
		Telemetry:         telemetry,
	})
	_, err := f.manager.Launch(a)
	require.NoError(t, err)

	require.NoError(t, f.manager.ToggleIndicator(context.Background(), "ApplicationTorch", types.IndicatorTorch, true))
	assert.Equal(t, []toggleCall{{types.IndicatorTorch, true}}, telemetry.calls)

	_, err = f.manager.Launch(plainRuntime{name: "ApplicationPlain"})
	require.NoError(t, err)
	err = f.manager.ToggleIndicator(context.Background(), "ApplicationPlain", types.IndicatorTorch, true)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, f.manager.Suspend("ApplicationPlain"), ErrUnsupported)

	err = f.manager.ToggleIndicator(context.Background(), "Missing", types.IndicatorTorch, true)
	assert.ErrorIs(t, err, ErrUnknownApp)
}

func TestForegroundAppRenders(t *testing.T) {
	f := newFixture(t)
	f.launch(t, "ApplicationDesktop", "", false)

	require.Eventually(t, func() bool {
		f.renderer.mu.Lock()
		defer f.renderer.mu.Unlock()
		return f.renderer.draws["ApplicationDesktop"] > 0
	}, waitFor, time.Millisecond)
}
