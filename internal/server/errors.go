package server

import (
	"errors"
	"inventory/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders errors returned from middleware the same way handler
// errors are rendered.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		if httpErr.Fields != nil {
			payload["errors"] = httpErr.Fields
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "request.invalid"
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = "route.not_found"
		case fiber.StatusMethodNotAllowed:
			code = "route.method_not_allowed"
		}

		zap.L().Warn("Fiber error", zap.String("code", code), zap.String("message", fiberErr.Message))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    code,
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
