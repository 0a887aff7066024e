// Package server exposes the analysis engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/cache"
	"github.com/veracitylabs/veracity/internal/config"
	"github.com/veracitylabs/veracity/internal/engine"
	"github.com/veracitylabs/veracity/internal/logger"
	"github.com/veracitylabs/veracity/internal/store"
	"github.com/veracitylabs/veracity/internal/websocket"
)

// How often the live event stream carries a system status event.
const statusInterval = 30 * time.Second

// AnalysisStore is the persistence surface the server needs. *store.Store
// implements it.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, text string, result *engine.Result) (int64, error)
	GetAnalysis(ctx context.Context, textHash string) (*engine.Result, error)
	Statistics(ctx context.Context) (*store.AggregateStats, error)
	LogRequest(ctx context.Context, entry store.RequestLog) error
}

// Server is the HTTP front end. Store, cache and hub are optional; a nil
// component disables the corresponding feature.
type Server struct {
	config  *config.Config
	logger  *logger.Logger
	engine  *engine.Engine
	store   AnalysisStore
	cache   cache.ResultCache
	hub     *websocket.Hub
	limiter *keyLimiter

	router     *mux.Router
	httpServer *http.Server
	startTime  time.Time
	stopStatus chan struct{}

	totalRequests int64
	totalAnalyses int64
}

// New creates a server from an initialized engine and optional components.
func New(cfg *config.Config, eng *engine.Engine, st AnalysisStore, c cache.ResultCache, hub *websocket.Hub, log *logger.Logger) *Server {
	s := &Server{
		config:     cfg,
		logger:     log.WithComponent("server"),
		engine:     eng,
		store:      st,
		cache:      c,
		hub:        hub,
		limiter:    newKeyLimiter(log),
		startTime:  time.Now(),
		stopStatus: make(chan struct{}),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	s.router.NotFoundHandler = http.HandlerFunc(s.notFoundHandler)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)

	if s.hub != nil {
		path := s.config.WebSocket.Path
		if path == "" {
			path = "/ws"
		}
		s.router.HandleFunc(path, s.hub.HandleWebSocket)
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware, s.authMiddleware, s.rateLimitMiddleware)

	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/batch", s.handleBatch).Methods(http.MethodPost)
	api.HandleFunc("/statistics", s.handleStatistics).Methods(http.MethodGet)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/limits", s.handleLimits).Methods(http.MethodGet)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving. It blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("auth_enabled", s.config.Auth.Enabled),
		zap.Bool("store_enabled", s.store != nil),
		zap.Bool("cache_enabled", s.cache != nil))

	if s.hub != nil {
		go s.statusLoop()
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// statusLoop periodically broadcasts a system status event to stream
// subscribers.
func (s *Server) statusLoop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.broadcastSystemStatus()
		case <-s.stopStatus:
			return
		}
	}
}

func (s *Server) broadcastSystemStatus() {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(websocket.Event{
		Type:      websocket.EventTypeSystemStatus,
		Timestamp: time.Now(),
		Data: websocket.SystemStatusEvent{
			Status:           "healthy",
			Uptime:           time.Since(s.startTime).Round(time.Second).String(),
			TotalRequests:    atomic.LoadInt64(&s.totalRequests),
			TotalAnalyses:    atomic.LoadInt64(&s.totalAnalyses),
			ConnectedClients: s.hub.ClientCount(),
		},
	})
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	close(s.stopStatus)
	s.limiter.Close()
	return s.httpServer.Shutdown(ctx)
}
