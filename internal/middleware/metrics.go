package middleware

import (
	"strconv"
	"time"

	"rental-service/pkg/logger"
	"rental-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MetricsMiddleware records request counters, durations and an access log line
// for every request
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		status := c.Response().Status
		method := c.Request().Method
		path := c.Path()
		statusStr := strconv.Itoa(status)
		duration := time.Since(start).Seconds()

		prometheus.HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		prometheus.HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		log := logger.FromContext(c)
		log.Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", status),
			zap.Float64("duration_s", duration),
			zap.String("ip", c.RealIP()),
		)

		return err
	}
}
