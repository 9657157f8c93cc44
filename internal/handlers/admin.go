package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Jordieferoz/Pawnderr-backend/internal/middleware"
	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
	"github.com/Jordieferoz/Pawnderr-backend/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	users      storage.UserStore
	bcryptCost int
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(users storage.UserStore, bcryptCost int) *AdminHandler {
	return &AdminHandler{users: users, bcryptCost: bcryptCost}
}

// ListUsers returns all registered users with pagination and search.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	users, total, err := h.users.List(c.UserContext(), pg.Offset, pg.Limit, c.Query("search"))
	if err != nil {
		return err
	}

	data := make([]fiber.Map, len(users))
	for i := range users {
		data[i] = profileResponse(&users[i])
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetUser returns any user record by ID.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
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

type adminUpdateUserRequest struct {
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Name          *string `json:"name"`
	Role          *string `json:"role"`
	EmailVerified *bool   `json:"email_verified"`
}

// UpdateUser lets an admin update any user, including role and
// verification state.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req adminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		// Emails are stored lowercase so the unique index catches
		// case-variant duplicates.
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email cannot be empty")
		}
		if existing, err := h.users.GetByEmail(c.UserContext(), email); err == nil {
			if existing.ID != userID {
				return fiber.NewError(fiber.StatusConflict, "email already in use")
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		updates["email"] = email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusBadRequest, "invalid role")
		}
		updates["role"] = *req.Role
	}
	if req.EmailVerified != nil {
		updates["email_verified"] = *req.EmailVerified
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	if err := h.users.Update(c.UserContext(), userID, updates); err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "user updated"})
}

// DeleteUser removes a user record. Admins cannot delete their own
// account.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if callerID, ok := middleware.GetCurrentUserID(c); ok && callerID == userID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.users.Delete(c.UserContext(), userID); err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "user deleted"})
}

type adminResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// ResetUserPassword sets a new password on any account, bypassing the
// token flow.
func (h *AdminHandler) ResetUserPassword(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req adminResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.NewPassword) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	hash, err := utils.HashSecret(req.NewPassword, h.bcryptCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	updates := map[string]interface{}{
		"password_hash": hash,
		"updated_at":    time.Now(),
	}
	if err := h.users.Update(c.UserContext(), userID, updates); err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "password reset successfully"})
}

// DashboardStats returns aggregate user statistics.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.UserContext(), time.Now())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
