package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Jordieferoz/Pawnderr-backend/internal/config"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
	"github.com/Jordieferoz/Pawnderr-backend/internal/utils"
)

const (
	userIDContextKey = "currentUserID"
	emailContextKey  = "currentUserEmail"
)

// RequireAuth validates the bearer token and loads the authenticated
// identity into request locals. Missing header, malformed header, and
// invalid token are reported distinctly but all answer 401.
func RequireAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, email, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userIDContextKey, userID)
		c.Locals(emailContextKey, email)
		return c.Next()
	}
}

// RequireAdmin re-fetches the caller's current role from the store on
// every request. The token never carries the role, so a demotion takes
// effect on the very next request even though the token stays valid.
func RequireAdmin(users storage.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "user not found")
			}
			return err
		}

		if !user.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}

		return c.Next()
	}
}

// CanActOn reports whether the authenticated caller may mutate the
// target user: admins may act on anyone, everyone else only on
// themselves.
func CanActOn(c *fiber.Ctx, users storage.UserStore, targetID uuid.UUID) (bool, error) {
	userID, ok := GetCurrentUserID(c)
	if !ok {
		return false, nil
	}

	if userID == targetID {
		return true, nil
	}

	user, err := users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return user.IsAdmin(), nil
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userIDContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentUserEmail extracts the authenticated email from context.
func GetCurrentUserEmail(c *fiber.Ctx) (string, bool) {
	value := c.Locals(emailContextKey)
	if value == nil {
		return "", false
	}

	if email, ok := value.(string); ok {
		return email, true
	}

	return "", false
}
