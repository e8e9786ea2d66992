package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/taskmgr/internal/logger"
	"github.com/labstack/echo/v4"
)

// requestLogger writes one line per request to the application log
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		logger.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		// Process request
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		// Log response
		res := c.Response()
		logger.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}

// tokenMiddleware checks the bearer token
func (s *Server) tokenMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, errorBody("authorization required"))
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid authorization format"))
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid token"))
		}
		return next(c)
	}
}
