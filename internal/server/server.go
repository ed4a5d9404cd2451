// Package server wires the PiP service together: configuration, logging,
// metrics, the platform driver, the registries, the session manager, and
// the HTTP/WebSocket surface.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/glasswing/pipcore/internal/api/http"
	"github.com/glasswing/pipcore/internal/api/middleware"
	"github.com/glasswing/pipcore/internal/api/ws"
	"github.com/glasswing/pipcore/internal/domain/content"
	"github.com/glasswing/pipcore/internal/domain/session"
	"github.com/glasswing/pipcore/internal/domain/view"
	"github.com/glasswing/pipcore/internal/infrastructure/config"
	"github.com/glasswing/pipcore/internal/infrastructure/logging"
	"github.com/glasswing/pipcore/internal/infrastructure/monitoring"
	"github.com/glasswing/pipcore/internal/platform"
	"github.com/glasswing/pipcore/internal/platform/sim"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	httpSrv  *http.Server
	manager  *session.Manager
	views    *view.Registry
	contents *content.Registry
	hub      *ws.Hub
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing pipd",
		zap.String("port", cfg.Server.Port),
		zap.String("driver", cfg.Driver.Name),
	)

	metrics := monitoring.NewMetrics()

	driver, err := newDriver(cfg)
	if err != nil {
		return nil, err
	}

	views := view.NewRegistry()
	contents := content.NewRegistry()

	manager := session.NewManager(driver, views, cfg.PiP).
		WithLogger(logger).
		WithMetrics(metrics)

	hub := ws.NewHub(manager, views, logger, metrics)
	handlers := apihttp.NewHandlers(manager, views, contents, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Host view registry
	router.POST("/views", handlers.ReportView)
	router.GET("/views", handlers.ListViews)
	router.DELETE("/views/:id", handlers.RemoveView)

	// Content registry
	router.POST("/content", handlers.RegisterContent)
	router.GET("/content", handlers.ListContent)
	router.DELETE("/content/:id", handlers.RemoveContent)

	// Session commands
	router.GET("/pip", handlers.Status)
	router.POST("/pip/anchor", handlers.AttachAnchor)
	router.POST("/pip/start", handlers.Start)
	router.POST("/pip/stop", handlers.Stop)
	router.PUT("/pip/content", handlers.UpdateContent)
	router.POST("/pip/restore/complete", handlers.CompleteRestore)

	// Notifications
	router.GET("/stream", hub.HandleConnection)

	// Metrics exposition
	router.GET("/metrics", func(c *gin.Context) {
		metrics.UpdateUptime()
		promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}).
			ServeHTTP(c.Writer, c.Request)
	})

	logger.Info("server initialized")

	return &Server{
		router:   router,
		manager:  manager,
		views:    views,
		contents: contents,
		hub:      hub,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

func newDriver(cfg *config.Config) (platform.Driver, error) {
	switch cfg.Driver.Name {
	case "", "sim":
		return sim.NewDriver(sim.WithStartLatency(cfg.Driver.StartLatency)), nil
	default:
		return nil, fmt.Errorf("unknown pip driver %q", cfg.Driver.Name)
	}
}

// RegisterPresets loads startup content declarations into the registry
func (s *Server) RegisterPresets(p *config.Presets) error {
	for _, preset := range p.Content {
		if err := s.contents.Register(preset.ID, preset.Blueprint); err != nil {
			return fmt.Errorf("preset %q: %w", preset.ID, err)
		}
		s.logger.Info("registered content preset", zap.String("content_id", preset.ID))
	}
	return nil
}

// Manager exposes the session manager, mainly for embedding and tests
func (s *Server) Manager() *session.Manager {
	return s.manager
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("starting http server", zap.String("addr", addr))

	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("shutting down")

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("http shutdown failed", zap.Error(err))
		}
	}

	s.hub.Close()
	if err := s.manager.Close(); err != nil {
		s.logger.Error("session close failed", zap.Error(err))
		return err
	}
	return nil
}
