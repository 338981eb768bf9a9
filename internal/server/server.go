// Package server exposes the projection engine over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anahmed/career-forecast/internal/engine"
	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/internal/store"
)

// ProgramSource lists catalog entries, usually backed by the store.
type ProgramSource interface {
	ListPrograms(f store.Filter) ([]refdata.Program, error)
}

// Server wires the engine and program catalog into an echo router.
type Server struct {
	router   *echo.Echo
	logger   *zap.Logger
	engine   *engine.Engine
	programs ProgramSource
	defaults engine.Params
}

// New builds the router with the default projection parameters applied to
// queries that leave them out.
func New(logger *zap.Logger, eng *engine.Engine, programs ProgramSource, defaults engine.Params) *Server {
	s := &Server{
		router:   echo.New(),
		logger:   logger,
		engine:   eng,
		programs: programs,
		defaults: defaults,
	}

	s.router.HideBanner = true
	s.router.HidePort = true
	s.router.JSONSerializer = sonicSerializer{}
	s.router.Validator = &requestValidator{validate: validator.New()}
	s.router.HTTPErrorHandler = s.handleError
	s.router.Use(s.requestID())
	s.router.Use(s.requestLogger())

	api := s.router.Group("/api")
	api.GET("/health", s.health)
	api.GET("/programs", s.listPrograms)
	api.GET("/networth", s.projectAll)
	api.GET("/networth/:id", s.projectOne)
	api.GET("/baseline", s.baseline)

	return s
}

// Serve blocks listening on addr.
func (s *Server) Serve(addr string) error {
	s.logger.Info("http server listening",
		zap.String("op", "server.Server.Serve"),
		zap.String("address", addr),
	)
	return s.router.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}

type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	return sonic.ConfigDefault.NewEncoder(c.Response()).Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	return sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%s: %w", err, refdata.ErrInvalidParameter)
	}
	return nil
}

func (s *Server) requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.Set(contextKeyRequestID, id)
			return next(c)
		}
	}
}

const contextKeyRequestID = "request_id"

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			id, _ := c.Get(contextKeyRequestID).(string)
			s.logger.Info("request handled",
				zap.String("op", "server.Server.requestLogger"),
				zap.String("requestID", id),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}
