package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Options struct {
	Server       *Server
	Authenticate echo.MiddlewareFunc
	// Optional; see ValidateRequests.
	ValidateRequests echo.MiddlewareFunc
	// Optional; exposed on /metrics.
	Metrics     http.Handler
	OpenAPIYAML []byte
	Logger      *slog.Logger
}

// NewEcho builds the HTTP router. Everything under /api/v1 except the health
// probe requires a bearer token.
func NewEcho(o Options) *echo.Echo {
	logger := o.Logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(o.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(context.Background(), level, "Request", attrs...)
			return nil
		},
	}))

	e.GET("/api/v1/health", o.Server.GetHealth)
	e.GET("/api/openapi.yml", func(ctx echo.Context) error {
		return ctx.Blob(http.StatusOK, "application/yaml", o.OpenAPIYAML)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if o.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(o.Metrics))
	}

	mw := []echo.MiddlewareFunc{o.Authenticate}
	if o.ValidateRequests != nil {
		mw = append(mw, o.ValidateRequests)
	}

	v1 := e.Group("/api/v1", mw...)
	v1.GET("/orders", o.Server.GetOrders)
	v1.POST("/orders", o.Server.CreateOrder)
	v1.GET("/orders/:orderId", o.Server.GetOrder)
	v1.POST("/orders/:orderId/stages/:stageIndex/start", o.Server.StartStage)
	v1.POST("/orders/:orderId/stages/:stageIndex/complete", o.Server.CompleteStage)

	return e
}
