package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Jordieferoz/Pawnderr-backend/internal/middleware"
	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	users storage.UserStore
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(users storage.UserStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func profileResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":             user.ID,
		"email":          user.Email,
		"phone":          user.Phone,
		"name":           user.Name,
		"email_verified": user.EmailVerified,
		"role":           user.Role,
		"created_at":     user.CreatedAt,
		"updated_at":     user.UpdatedAt,
	}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.users.GetByID(c.UserContext(), userID)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profileResponse(user),
	})
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UpdateProfile updates the authenticated user's mutable fields.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	if err := h.users.Update(c.UserContext(), userID, updates); err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}

// GetUser returns a user record; callers may read themselves, admins
// may read anyone.
func (h *ProfileHandler) GetUser(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	allowed, err := middleware.CanActOn(c, h.users, targetID)
	if err != nil {
		return err
	}
	if !allowed {
		return fiber.NewError(fiber.StatusForbidden, "you can only access your own profile")
	}

	user, err := h.users.GetByID(c.UserContext(), targetID)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profileResponse(user),
	})
}
