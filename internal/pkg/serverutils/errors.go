package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ideabot-be/internal/pkg/logger"
)

// ApiError is a service-level error carrying the HTTP status it should map
// to. Services return it for request-shaped failures (validation, missing
// resources); anything else is treated as an internal storage failure.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func BadRequest(message string) *ApiError {
	return &ApiError{Status: fiber.StatusBadRequest, Message: message}
}

func NotFound(message string) *ApiError {
	return &ApiError{Status: fiber.StatusNotFound, Message: message}
}

func Unauthorized(message string) *ApiError {
	return &ApiError{Status: fiber.StatusUnauthorized, Message: message}
}

// ErrorHandlerMiddleware converts service errors to JSON responses.
// Raw storage errors are never surfaced verbatim to callers.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Status).JSON(fiber.Map{"error": apiErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.Error("HTTP", "Unhandled request error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
