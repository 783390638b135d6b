package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			s.logger.LogHTTPRequest(
				values.Method,
				values.URI,
				values.RequestID,
				values.RemoteIP,
				values.Status,
				float64(values.Latency.Nanoseconds())/1000000,
				values.Error,
			)
			return nil
		},
	}))

	if s.metrics != nil {
		s.echo.Use(s.metrics.Middleware())
	}

	// Browsers send credentials from the frontend dev servers, so origins
	// must be listed explicitly rather than "*".
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.Security.AllowedOrigins(),
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowCredentials: true,
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(s.config.Security.RateLimitRequests) / s.config.Security.RateLimitWindow.Seconds()),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: s.config.Server.RequestTimeout,
		}))
	}
}
