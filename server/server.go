package server

import (
	"context"
	"net/http"

	"github.com/existflow/taskmgr/internal/store"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server exposes a task store over a local JSON API
type Server struct {
	store *store.Store
	token string
	echo  *echo.Echo
}

// Option configures a Server
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on /api routes
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// New creates a server over a loaded store
func New(st *store.Store, opts ...Option) *Server {
	s := &Server{store: st}
	for _, opt := range opts {
		opt(s)
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")
	if s.token != "" {
		api.Use(s.tokenMiddleware)
	}

	api.GET("/tasks", s.handleListTasks)
	api.POST("/tasks", s.handleCreateTask)
	api.GET("/tasks/:id", s.handleGetTask)
	api.PATCH("/tasks/:id", s.handleUpdateTask)
	api.DELETE("/tasks/:id", s.handleDeleteTask)
	api.POST("/tasks/:id/toggle", s.handleToggleTask)
	api.POST("/tasks/:id/time", s.handleLogTime)

	api.GET("/overdue", s.handleOverdue)
	api.GET("/upcoming", s.handleUpcoming)
	api.GET("/calendar", s.handleCalendar)

	api.GET("/error", s.handleGetError)
	api.DELETE("/error", s.handleClearError)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"tasks":  len(s.store.Tasks()),
	})
}
