package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/domain/window"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

const appName = "ApplicationAlarm"

type mockController struct {
	mock.Mock
}

func (m *mockController) ApplicationInitialised(app string, ok bool, startInBackground bool) {
	m.Called(app, ok, startInBackground)
}

func (m *mockController) ConfirmSwitch(app string) bool {
	return m.Called(app).Bool(0)
}

func (m *mockController) ConfirmClose(app string) {
	m.Called(app)
}

func (m *mockController) SwitchBack(app string) {
	m.Called(app)
}

type fakeBus struct {
	mu    sync.Mutex
	queue []message.Message
}

func (b *fakeBus) Send(msg message.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, msg)
	return nil
}

func (b *fakeBus) drain() []message.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

type fakeRenderer struct {
	draws []*message.Draw
}

func (r *fakeRenderer) Draw(d *message.Draw) error {
	r.draws = append(r.draws, d)
	return nil
}

func (r *fakeRenderer) last() *message.Draw {
	if len(r.draws) == 0 {
		return nil
	}
	return r.draws[len(r.draws)-1]
}

type fakeTelemetry struct {
	indicators types.Indicators
	toggle     func(ctx context.Context, indicator types.Indicator, on bool) error
}

func (f *fakeTelemetry) Indicators() types.Indicators { return f.indicators }

func (f *fakeTelemetry) Toggle(ctx context.Context, indicator types.Indicator, on bool) error {
	if f.toggle == nil {
		return nil
	}
	return f.toggle(ctx, indicator, on)
}

type fakeTimer struct {
	running bool
	starts  int
	stops   int
}

func (t *fakeTimer) Start() { t.running = true; t.starts++ }
func (t *fakeTimer) Stop()  { t.running = false; t.stops++ }

type fakeSettings struct {
	values   map[string]string
	watchers map[string][]func(string)
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: map[string]string{}, watchers: map[string][]func(string){}}
}

func (s *fakeSettings) Get(key string, _ types.SettingScope) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeSettings) Register(key string, _ types.SettingScope, cb func(string)) func() {
	s.watchers[key] = append(s.watchers[key], cb)
	return func() { delete(s.watchers, key) }
}

func (s *fakeSettings) Set(key, value string, _ types.SettingScope) error {
	s.values[key] = value
	for _, cb := range s.watchers[key] {
		cb(value)
	}
	return nil
}

type testWindow struct {
	window.Base
	closed  int
	shows   []types.ShowMode
	data    []message.SwitchData
	inputs  []input.Event
	redraws bool
}

func (w *testWindow) OnClose() { w.closed++ }

func (w *testWindow) OnBeforeShow(mode types.ShowMode, data message.SwitchData) {
	w.shows = append(w.shows, mode)
	w.data = append(w.data, data)
}

func (w *testWindow) OnInput(ev input.Event) bool {
	w.inputs = append(w.inputs, ev)
	return w.redraws
}

type note string

func (n note) Description() string { return string(n) }

type harness struct {
	t          *testing.T
	app        *Application
	bus        *fakeBus
	renderer   *fakeRenderer
	telemetry  *fakeTelemetry
	controller *mockController
	timer      *fakeTimer
	settings   *fakeSettings
	logs       *observer.ObservedLogs
	now        time.Time

	built   map[string][]*testWindow
	outside []message.Message
}

func newHarness(t *testing.T, windows ...string) *harness {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	h := &harness{
		t:          t,
		bus:        &fakeBus{},
		renderer:   &fakeRenderer{},
		telemetry:  &fakeTelemetry{},
		controller: &mockController{},
		timer:      &fakeTimer{},
		settings:   newFakeSettings(),
		logs:       logs,
		now:        time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		built:      map[string][]*testWindow{},
	}

	h.app = New(Options{
		Name:               appName,
		DefaultWindow:      "Main",
		LongPressThreshold: time.Second,
		IndicatorTimeout:   20 * time.Millisecond,
		Controller:         h.controller,
		Bus:                h.bus,
		Renderer:           h.renderer,
		Telemetry:          h.telemetry,
		Settings:           h.settings,
		Logger:             zap.New(core),
		LongPressTimer:     h.timer,
		Clock:              func() time.Time { return h.now },
	})

	if len(windows) == 0 {
		windows = []string{"Main", "Home", "Settings", "Sound", "A", "B"}
	}
	for _, name := range windows {
		h.app.AttachWindow(name, func(name string) window.Window {
			w := &testWindow{Base: window.NewBase(name)}
			h.built[name] = append(h.built[name], w)
			return w
		})
	}

	return h
}

// pump delivers self-addressed messages until the application stops posting
func (h *harness) pump() {
	h.t.Helper()
	for i := 0; i < 100; i++ {
		msgs := h.bus.drain()
		if len(msgs) == 0 {
			return
		}
		for _, msg := range msgs {
			if msg.Envelope().Target == appName {
				h.app.Handle(msg)
			} else {
				h.outside = append(h.outside, msg)
			}
		}
	}
	h.t.Fatal("application kept posting messages")
}

// activate runs init and a confirmed switch to window
func (h *harness) activate(window string) {
	h.t.Helper()
	h.controller.On("ApplicationInitialised", appName, true, false).Return().Maybe()
	h.controller.On("ConfirmSwitch", appName).Return(true).Maybe()

	if err := h.app.InitHandler(); err != nil {
		h.t.Fatal(err)
	}
	h.app.Handle(message.NewSwitch("ApplicationManager", appName, window, nil))
	h.pump()
}

func (h *harness) navigate(names ...string) {
	h.t.Helper()
	for _, name := range names {
		h.app.SwitchWindow(name, types.ShowInit, nil)
		h.pump()
	}
}

func (h *harness) window(name string) *testWindow {
	ws := h.built[name]
	if len(ws) == 0 {
		return nil
	}
	return ws[len(ws)-1]
}
