package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the runtime.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Bus metrics
	MessagesTotal   *prometheus.CounterVec
	MessageDuration *prometheus.HistogramVec
	MailboxDepth    *prometheus.GaugeVec

	// Application metrics
	AppsRunning          prometheus.Gauge
	LifecycleTransitions *prometheus.CounterVec
	WindowSwitches       *prometheus.CounterVec
	Renders              *prometheus.CounterVec
	RendersSkipped       *prometheus.CounterVec
	Actions              *prometheus.CounterVec

	// Service metrics
	IndicatorCalls    *prometheus.CounterVec
	IndicatorDuration *prometheus.HistogramVec
	Frames            *prometheus.CounterVec

	// Debug server metrics
	DebugRequests *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector registered with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_bus_messages_total",
				Help: "Messages delivered to application actors",
			},
			[]string{"app", "kind", "result"},
		),
		MessageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phone_bus_message_duration_seconds",
				Help:    "Time an actor spent handling one message",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"kind"},
		),
		MailboxDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "phone_bus_mailbox_depth",
				Help: "Messages waiting in an actor mailbox",
			},
			[]string{"app"},
		),

		AppsRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "phone_apps_running",
				Help: "Number of launched applications",
			},
		),
		LifecycleTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_app_lifecycle_transitions_total",
				Help: "Application state changes",
			},
			[]string{"app", "from", "to"},
		),
		WindowSwitches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_app_window_switches_total",
				Help: "Window switches performed by applications",
			},
			[]string{"app", "result"},
		),
		Renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_app_renders_total",
				Help: "Draw requests sent to the renderer",
			},
			[]string{"app", "mode", "tag"},
		),
		RendersSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_app_renders_skipped_total",
				Help: "Render requests dropped before reaching the renderer",
			},
			[]string{"app", "reason"},
		),
		Actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_app_actions_total",
				Help: "Action requests routed by applications",
			},
			[]string{"action", "result"},
		),

		IndicatorCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_indicator_calls_total",
				Help: "Synchronous hardware indicator round trips",
			},
			[]string{"indicator", "status"},
		),
		IndicatorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phone_indicator_call_duration_seconds",
				Help:    "Hardware indicator round trip duration",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2},
			},
			[]string{"indicator"},
		),
		Frames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_display_frames_total",
				Help: "Frames written by the display sink",
			},
			[]string{"tag"},
		),

		DebugRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phone_debug_http_requests_total",
				Help: "Requests served by the debug server",
			},
			[]string{"method", "path", "status"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "phone_uptime_seconds",
				Help: "Runtime uptime in seconds",
			},
		),
	}

	return m
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	if m == nil {
		return
	}
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordMessage records one handled message
func (m *Metrics) RecordMessage(app, kind string, handled bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "not_handled"
	if handled {
		result = "handled"
	}
	m.MessagesTotal.WithLabelValues(app, kind, result).Inc()
	m.MessageDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SetMailboxDepth records how many messages wait for an actor
func (m *Metrics) SetMailboxDepth(app string, depth int) {
	if m == nil {
		return
	}
	m.MailboxDepth.WithLabelValues(app).Set(float64(depth))
}

// ForgetMailbox drops the depth series of a stopped actor
func (m *Metrics) ForgetMailbox(app string) {
	if m == nil {
		return
	}
	m.MailboxDepth.DeleteLabelValues(app)
}

// SetAppsRunning records the number of launched applications
func (m *Metrics) SetAppsRunning(count int) {
	if m == nil {
		return
	}
	m.AppsRunning.Set(float64(count))
}

// RecordTransition records an application state change
func (m *Metrics) RecordTransition(app, from, to string) {
	if m == nil {
		return
	}
	m.LifecycleTransitions.WithLabelValues(app, from, to).Inc()
}

// RecordWindowSwitch records a window switch attempt
func (m *Metrics) RecordWindowSwitch(app string, ok bool) {
	if m == nil {
		return
	}
	result := "switched"
	if !ok {
		result = "unregistered"
	}
	m.WindowSwitches.WithLabelValues(app, result).Inc()
}

// RecordRender records a draw request sent to the renderer
func (m *Metrics) RecordRender(app, mode, tag string) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(app, mode, tag).Inc()
}

// RecordRenderSkipped records a render request that was dropped
func (m *Metrics) RecordRenderSkipped(app, reason string) {
	if m == nil {
		return
	}
	m.RendersSkipped.WithLabelValues(app, reason).Inc()
}

// RecordAction records an action request
func (m *Metrics) RecordAction(action string, dispatched bool) {
	if m == nil {
		return
	}
	result := "dispatched"
	if !dispatched {
		result = "no_receiver"
	}
	m.Actions.WithLabelValues(action, result).Inc()
}

// RecordIndicatorCall records a hardware indicator round trip
func (m *Metrics) RecordIndicatorCall(indicator, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.IndicatorCalls.WithLabelValues(indicator, status).Inc()
	m.IndicatorDuration.WithLabelValues(indicator).Observe(duration.Seconds())
}

// RecordFrame records a frame written to the display
func (m *Metrics) RecordFrame(tag string) {
	if m == nil {
		return
	}
	m.Frames.WithLabelValues(tag).Inc()
}

// RecordDebugRequest records a debug server request
func (m *Metrics) RecordDebugRequest(method, path, status string) {
	if m == nil {
		return
	}
	m.DebugRequests.WithLabelValues(method, path, status).Inc()
}
