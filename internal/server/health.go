package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type poolStatser interface {
	GetPoolStats() map[string]interface{}
}

type healthChecker interface {
	IsHealthy() bool
}

func healthz(db pinger, publisher any) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		body := fiber.Map{"status": "ok", "database": "ok"}

		if err := db.Ping(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			body["status"] = "unavailable"
			body["database"] = err.Error()
		}

		if ps, ok := db.(poolStatser); ok {
			body["pool"] = ps.GetPoolStats()
		}

		if hc, ok := publisher.(healthChecker); ok {
			if hc.IsHealthy() {
				body["broker"] = "ok"
			} else {
				body["broker"] = "unavailable"
			}
		}

		return c.Status(status).JSON(body)
	}
}
