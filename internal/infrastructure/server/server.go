package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/tracing"
	"github.com/mudita/MuditaOS-sub019/internal/middleware"
	"github.com/mudita/MuditaOS-sub019/internal/providers/monitor"
	"github.com/mudita/MuditaOS-sub019/internal/providers/settings"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// Apps is the application manager as seen by the debug server
type Apps interface {
	List() []types.AppInfo
	Stats() types.Stats
	Get(app string) (types.AppInfo, bool)
	SwitchTo(app, window string, data message.SwitchData) error
	Close(app string) error
	Rebuild(app string) error
	Suspend(app string) error
	ToggleIndicator(ctx context.Context, app string, indicator types.Indicator, on bool) error
}

// Settings is the settings store as seen by the debug server
type Settings interface {
	List(scope types.SettingScope) []settings.Setting
	Set(key, value string, scope types.SettingScope) error
}

// Options configures the debug server
type Options struct {
	Address     string
	Development bool

	Apps     Apps
	Settings Settings
	Gatherer prometheus.Gatherer
	Monitor  *monitor.Provider

	// CORS and RateLimit are applied when set
	CORS      *middleware.CORSConfig
	RateLimit *middleware.RateLimitConfig

	Logger  *zap.Logger
	Metrics *monitoring.Metrics
	Tracer  *tracing.Tracer
}

// Server is the debug HTTP server exposing runtime state and metrics
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates the debug server and registers its routes
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("debug")

	if !opts.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	if opts.Tracer != nil {
		router.Use(tracing.HTTPMiddleware(opts.Tracer))
	}
	router.Use(monitoring.Middleware(opts.Metrics))
	if opts.CORS != nil {
		router.Use(middleware.CORS(*opts.CORS))
	}
	if opts.RateLimit != nil {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", opts.RateLimit.RequestsPerSecond),
			zap.Int("burst", opts.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(*opts.RateLimit))
	}

	h := &handlers{apps: opts.Apps, settings: opts.Settings, logger: logger}

	router.GET("/", h.Root)
	router.GET("/healthz", h.Health)

	router.GET("/apps", h.ListApps)
	router.GET("/apps/:name", h.GetApp)
	router.POST("/apps/:name/switch", h.SwitchApp)
	router.DELETE("/apps/:name", h.CloseApp)
	router.POST("/apps/:name/rebuild", h.RebuildApp)
	router.POST("/apps/:name/suspend", h.SuspendApp)
	router.PUT("/apps/:name/indicators/:indicator", h.ToggleIndicator)

	if opts.Settings != nil {
		router.GET("/settings", h.ListSettings)
		router.PUT("/settings/:key", h.SetSetting)
	}

	if opts.Monitor != nil {
		router.GET("/runtime", func(c *gin.Context) {
			c.JSON(http.StatusOK, opts.Monitor.Snapshot())
		})
	}

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              opts.Address,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting debug server", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Shutting down debug server...")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
