package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"synergy/internal/app"
	"synergy/internal/config"
	"synergy/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	hub    *app.RoomHub
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, hub *app.RoomHub, logger *slog.Logger) *Server {
	s := &Server{
		hub:    hub,
		config: cfg,
		logger: logger,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(corsMiddleware())
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/rooms", s.handleCreateRoom)
		api.GET("/rooms/:roomCode", s.handleGetRoom)
		api.GET("/health", s.handleHealth)
		api.GET("/stats", s.handleStats)
	}

	// WebSocket
	wsHandler := ws.NewHandler(s.hub, s.logger)
	router.GET("/ws", gin.WrapH(wsHandler))
}

// requestLogger logs HTTP requests through slog, skipping websocket noise
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/ws" && !s.config.IsDevelopment() {
			return
		}

		s.logger.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// corsMiddleware adds permissive CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
