package serverutils

import (
	"ai-therapy-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the error taxonomy onto HTTP statuses in one
// place so controllers can simply return errors from services.
//
// Forbidden deliberately shares the 403 shape without echoing resource
// details, so a caller cannot probe whether someone else's session exists.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		switch {
		case apperror.IsValidation(err):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(400, err.Error()))
		case apperror.IsNotFound(err):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, err.Error()))
		case apperror.IsForbidden(err):
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "Unauthorized"))
		case apperror.IsInvalidState(err):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(409, err.Error()))
		case apperror.IsStorage(err):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(503, "Service temporarily unavailable, please retry"))
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, err.Error()))
	}
}
