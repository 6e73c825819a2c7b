package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func LoggerMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if v := GetViewer(c); v.UserID != "" {
			fields = append(fields, zap.String("user_id", v.UserID))
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
			log.Warn("request", fields...)
			return err
		}
		log.Info("request", fields...)

		return nil
	}
}
