package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
)

// jsonSuccess returns a response with data wrapped in the standard envelope.
// The status code is left as set by the caller, 200 by default.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// ErrorHandler renders errors returned by handlers and middleware in the
// JSON error envelope.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		slog.Error("unhandled request error", "path", c.Path(), "error", err)
	}
	return jsonError(c, code, message)
}
