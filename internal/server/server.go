// Package server exposes the projection engine over HTTP for the dashboard.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pnl-projection-service/internal/observability"
	"pnl-projection-service/internal/projection"
)

// Options configures a Server.
type Options struct {
	// Projections serves the requests. Required.
	Projections *projection.Service
	// ListenAddr defaults to ":8080".
	ListenAddr string
	// AllowedOrigins for CORS. Default allows any origin.
	AllowedOrigins []string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Clock is the time source for uptime and health timestamps.
	Clock func() time.Time
}

// Server wires the HTTP routes to the projection service.
type Server struct {
	projections *projection.Service
	engine      *gin.Engine
	srv         *http.Server
	logger      *zap.Logger
	clock       func() time.Time
	startedAt   time.Time

	mu     sync.RWMutex
	status map[string]string
}

// NewServer creates the server and registers its routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Projections == nil {
		return nil, errors.New("server: projection service is required")
	}
	addr := opts.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	s := &Server{
		projections: opts.Projections,
		engine:      engine,
		logger:      logger,
		clock:       clock,
		startedAt:   clock(),
		status:      make(map[string]string),
	}

	api := engine.Group("/api/v1")
	{
		api.GET("/projection", s.handleProjection)
		api.GET("/projection/history", s.handleHistory)
	}
	engine.GET("/health", s.handleHealth)
	engine.GET("/status", s.handleStatus)
	engine.GET("/metrics", gin.WrapH(observability.Handler()))

	s.srv = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return s, nil
}

// Router returns the underlying handler, for tests.
func (s *Server) Router() http.Handler {
	return s.engine
}

// UpdateStatus records a key/value pair reported by /status.
func (s *Server) UpdateStatus(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[key] = value
}

// Start serves HTTP in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", zap.Error(err))
		}
	}()
}

// Stop shuts the server down, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
