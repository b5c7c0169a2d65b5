package middleware

import (
	"context"
	"inventory/pkg/events"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewRequestLogger logs one line per request and makes the request id the
// correlation id of any event published while serving it. It must run after
// the requestid middleware.
func NewRequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}
		c.SetUserContext(events.WithCorrelationID(userCtx, requestID))

		chainErr := c.Next()
		if chainErr != nil {
			// Render now so the logged status is the one the client sees.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("requestId", requestID),
		}
		if id, ok := IdentityFromContext(c.UserContext()); ok {
			fields = append(fields, zap.String("userId", id.UserID))
		}

		zap.L().Info("HTTP request", fields...)
		return nil
	}
}
