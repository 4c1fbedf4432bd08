package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service-layer errors that bubble out of
// handlers into the standard response envelope. Sentinel families pick the
// status; anything unrecognized is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ErrorResponse(ctx, fiberErr.Code, fiberErr.Message)
		}

		switch {
		case errors.Is(err, ErrInvalidInput):
			return ErrorResponse(ctx, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrUnauthorized):
			return ErrorResponse(ctx, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrForbidden):
			return ErrorResponse(ctx, fiber.StatusForbidden, err.Error())
		case errors.Is(err, ErrNotFound):
			return ErrorResponse(ctx, fiber.StatusNotFound, err.Error())
		case errors.Is(err, ErrConflict):
			return ErrorResponse(ctx, fiber.StatusConflict, err.Error())
		case errors.Is(err, ErrUpstream):
			return ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
		default:
			return ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
		}
	}
}
