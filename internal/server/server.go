// Package server exposes the board over HTTP: a JSON API for reading and
// mutating tasks and a server-sent event stream of committed changes.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/thenoetrevino/tablo/internal/events"
	"github.com/thenoetrevino/tablo/internal/query"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
)

const (
	// maxBodyBytes caps JSON request bodies
	maxBodyBytes = 1 << 20
	// maxCoverBytes caps raw cover uploads
	maxCoverBytes = 10 << 20

	shutdownTimeout   = 5 * time.Second
	keepAliveInterval = 15 * time.Second
)

// Deps are the collaborators served by the API
type Deps struct {
	Store  taskservice.Service
	Engine *query.Engine // Optional, defaults to query.New()
	Bus    *events.Bus   // Optional, disables /api/events when nil
	Logger *slog.Logger  // Optional
}

// Server is the HTTP front of a task store
type Server struct {
	addr    string
	echo    *echo.Echo
	store   taskservice.Service
	engine  *query.Engine
	bus     *events.Bus
	metrics *Metrics
	logger  *slog.Logger

	// done is closed on shutdown so open event streams return
	done         chan struct{}
	shutdownOnce sync.Once
}

// New creates a server listening on addr once started
func New(addr string, deps Deps) *Server {
	if deps.Engine == nil {
		deps.Engine = query.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Server{
		addr:    addr,
		store:   deps.Store,
		engine:  deps.Engine,
		bus:     deps.Bus,
		metrics: NewMetrics(),
		logger:  deps.Logger,
		done:    make(chan struct{}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	s.echo = e
	s.register()

	return s
}

func (s *Server) register() {
	api := s.echo.Group("/api")
	api.GET("/board", s.getBoard)
	api.GET("/tasks/:id", s.getTask)
	api.POST("/tasks", s.createTask)
	api.PATCH("/tasks/:id", s.updateTask)
	api.DELETE("/tasks/:id", s.deleteTask)
	api.POST("/tasks/:id/move", s.moveTask)
	api.PATCH("/tasks/:id/checklist/:itemId", s.setChecklistItem)
	api.PUT("/tasks/:id/cover", s.putCover)
	api.DELETE("/tasks/:id/cover", s.deleteCover)
	api.PUT("/columns/:id/order", s.reorderColumn)
	api.GET("/events", s.streamEvents)
	api.GET("/metrics", s.getMetrics)

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

// Handler returns the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Metrics returns the API counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start serves until ctx is cancelled or the listener fails, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("server starting", "addr", s.addr)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.echo.Start(s.addr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("server context cancelled, shutting down")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown ends open event streams and stops the listener gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.done)
		err = s.echo.Shutdown(ctx)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	})
	return err
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.metrics.IncRequests()
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				s.logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.Debug("request", attrs...)
			return nil
		},
	})
}

// sonicSerializer replaces echo's encoding/json serializer
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}
	return nil
}
