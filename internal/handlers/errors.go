package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Jordieferoz/Pawnderr-backend/internal/services"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
)

// translate maps service-level errors to fiber errors. Anything
// unrecognized passes through and surfaces as a 500 from the framework's
// error handler, with no store internals in the response body.
func translate(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	case errors.Is(err, services.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, "user already exists")
	case errors.Is(err, storage.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, "email already in use")
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrInvalidOrExpired):
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired")
	case errors.Is(err, services.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	default:
		return err
	}
}
