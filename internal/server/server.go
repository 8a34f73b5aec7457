package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/action"
	"github.com/mudita/MuditaOS-sub019/internal/domain/app"
	"github.com/mudita/MuditaOS-sub019/internal/domain/manager"
	"github.com/mudita/MuditaOS-sub019/internal/domain/window"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/bus"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/config"
	manifestpkg "github.com/mudita/MuditaOS-sub019/internal/infrastructure/manifest"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	debug "github.com/mudita/MuditaOS-sub019/internal/infrastructure/server"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/tracing"
	"github.com/mudita/MuditaOS-sub019/internal/logging"
	"github.com/mudita/MuditaOS-sub019/internal/middleware"
	"github.com/mudita/MuditaOS-sub019/internal/providers/display"
	"github.com/mudita/MuditaOS-sub019/internal/providers/monitor"
	"github.com/mudita/MuditaOS-sub019/internal/providers/settings"
	"github.com/mudita/MuditaOS-sub019/internal/providers/telemetry"
	"github.com/mudita/MuditaOS-sub019/internal/windows"
)

// Server wires the runtime together: bus, application manager, system
// services and the applications declared by the manifest
type Server struct {
	config   *config.Config
	manifest *manifestpkg.Manifest

	logger    *logging.Logger
	registry  *prometheus.Registry
	metrics   *monitoring.Metrics
	tracer    *tracing.Tracer
	bus       *bus.Bus
	manager   *manager.Manager
	settings  *settings.Provider
	telemetry *telemetry.Provider
	display   *display.Sink
	debug     *debug.Server
	keys      *KeyFeeder
}

// Options overrides parts of the default wiring
type Options struct {
	// Manifest is used instead of loading cfg.Manifest.Path
	Manifest *manifestpkg.Manifest
	// Hardware answers indicator commands. Defaults to a simulated keypad.
	Hardware telemetry.HardwareClient
	// Display receives rendered frames
	Display io.Writer
	Logger  *logging.Logger
}

// NewServer creates the runtime. Nothing runs until Boot.
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	m := opts.Manifest
	if m == nil {
		loaded, err := manifestpkg.Load(cfg.Manifest.Path)
		if err != nil {
			return nil, err
		}
		m = loaded
	}

	logger.Info("Initializing phone runtime",
		zap.String("manifest", cfg.Manifest.Path),
		zap.Int("apps", len(m.Apps)),
		zap.String("home", m.Home),
	)

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)
	tracer := tracing.New("phoned", logger.Logger)

	b := bus.New(logger.ForService("bus"), bus.WithMetrics(metrics), bus.WithTracer(tracer))
	mgr := manager.NewManager(b, logger.ForService("manager")).WithMetrics(metrics)

	hw := opts.Hardware
	if hw == nil {
		hw = &telemetry.SimulatedHardware{Latency: 20 * time.Millisecond}
	}

	out := opts.Display
	if out == nil {
		out = io.Discard
	}

	s := &Server{
		config:    cfg,
		manifest:  m,
		logger:    logger,
		registry:  registry,
		metrics:   metrics,
		tracer:    tracer,
		bus:       b,
		manager:   mgr,
		settings:  settings.NewProvider(logger.ForService("settings")),
		telemetry: telemetry.NewProvider(hw, b, logger.ForService("telemetry")).WithMetrics(metrics),
		display:   display.NewSink(out, cfg.Display.FramesPerSecond, cfg.Display.Burst, logger.Logger).WithMetrics(metrics),
	}
	s.keys = NewKeyFeeder(mgr, b, cfg.Runtime.LongPressThreshold, logger.ForService("keypad"))

	if cfg.Debug.Enabled {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowOrigins = cfg.Debug.CORSOrigins
		rateCfg := middleware.DefaultRateLimitConfig()
		rateCfg.RequestsPerSecond = cfg.Debug.RequestsPerSecond
		rateCfg.Burst = cfg.Debug.Burst

		s.debug = debug.New(debug.Options{
			Address:     cfg.Debug.Address,
			Development: cfg.Logging.Development,
			Apps:        mgr,
			Settings:    s.settings,
			Gatherer:    registry,
			Monitor:     monitor.NewProvider(b),
			CORS:        &corsCfg,
			RateLimit:   &rateCfg,
			Logger:      logger.Logger,
			Metrics:     metrics,
			Tracer:      tracer,
		})
	}

	return s, nil
}

// Manager returns the application manager
func (s *Server) Manager() *manager.Manager { return s.manager }

// Keys returns the keypad feeder
func (s *Server) Keys() *KeyFeeder { return s.keys }

// Telemetry returns the indicator service
func (s *Server) Telemetry() *telemetry.Provider { return s.telemetry }

// Settings returns the settings store
func (s *Server) Settings() *settings.Provider { return s.settings }

// Boot launches every application in the manifest. Only the home
// application takes the foreground; the rest start in the background.
func (s *Server) Boot() error {
	var errs []error
	for _, a := range s.manifest.Apps {
		background := a.StartInBackground || (s.manifest.Home != "" && a.Name != s.manifest.Home)
		if _, err := s.manager.Launch(s.buildApp(a, background)); err != nil {
			s.logger.Error("Failed to launch application", zap.String("app", a.Name), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Server) buildApp(def manifestpkg.App, background bool) *app.Application {
	rc := s.config.Runtime

	defaultWindow := def.MainWindow
	switch {
	case defaultWindow != "":
	case len(def.Windows) > 0:
		defaultWindow = def.Windows[0].Name
	default:
		defaultWindow = rc.DefaultWindow
	}

	a := app.New(app.Options{
		Name:               def.Name,
		Parent:             def.Parent,
		StartInBackground:  background,
		DefaultWindow:      defaultWindow,
		LongPressThreshold: rc.LongPressThreshold,
		LongPressPoll:      rc.LongPressPoll,
		IndicatorTimeout:   rc.IndicatorTimeout,
		Controller:         s.manager,
		Bus:                s.bus,
		Renderer:           s.display,
		Telemetry:          s.telemetry,
		Settings:           s.settings,
		Logger:             s.logger.ForApplication(def.Name),
		Metrics:            s.metrics,
	})

	for _, w := range def.Windows {
		a.AttachWindow(w.Name, s.textBuilder(w))
	}
	if len(def.Windows) == 0 {
		a.AttachWindow(defaultWindow, windows.Builder(def.Name, nil))
	}

	name := def.Name
	a.AddActionReceiver(action.Launch, func(params action.Params) error {
		target, _ := params.(string)
		return s.manager.SwitchTo(name, target, nil)
	})
	return a
}

// textBuilder creates windows whose entries launch the application they name
func (s *Server) textBuilder(def manifestpkg.Window) window.Builder {
	return func(name string) window.Window {
		w := windows.NewText(name, def.Title, def.Lines)
		w.OnSelect = func(line string) {
			if _, ok := s.manifest.Find(line); !ok {
				return
			}
			if err := s.manager.Action(line, action.Launch, nil); err != nil {
				s.logger.Warn("Failed to launch from menu", zap.String("app", line), zap.Error(err))
			}
		}
		return w
	}
}

// Run starts the background services and blocks until ctx is done
func (s *Server) Run(ctx context.Context) error {
	go s.telemetry.RunClock(ctx)

	if s.debug == nil {
		<-ctx.Done()
		return nil
	}
	return s.debug.Run(ctx)
}

// Close shuts applications down and stops the bus
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down runtime...")

	err := s.manager.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Applications did not stop in time", zap.Error(err))
	}

	s.bus.Close()
	s.tracer.Close()
	_ = s.logger.Sync()
	return err
}
