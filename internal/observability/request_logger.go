package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// RouteLabels returns the matched route pattern and method as metric labels.
// Fiber reuses the request buffers behind c.Path and c.Method, so both are copied.
func RouteLabels(c *fiber.Ctx) (path, method string) {
	return utils.CopyString(c.Route().Path), utils.CopyString(c.Method())
}

// RequestLogger logs every request and feeds the HTTP metrics.
// It must run outside the error middleware so it sees the final status.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		path, method := RouteLabels(c)
		metrics.RecordRequest(path, method, status, duration)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		}
		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}
