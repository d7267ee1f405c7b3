package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/metrics"
)

// Metrics records request counts and latencies labelled by route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
