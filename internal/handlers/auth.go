package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Jordieferoz/Pawnderr-backend/internal/services"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
}

// Register creates a new user account and sends the verification OTP.
// The response carries only the new user ID, never the code or a token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := h.auth.Register(c.UserContext(), req.Email, req.Password, req.Phone, req.Name)
	if err != nil {
		return translate(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registered.",
		"userId":  userID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user and returns a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

type verifyOtpRequest struct {
	UserID string `json:"userId"`
	Otp    string `json:"otp"`
}

// VerifyOtp validates a submitted code against the user's live
// challenges.
func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req verifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" || req.Otp == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userId and otp are required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid userId")
	}

	if err := h.auth.VerifyOtp(c.UserContext(), userID, req.Otp); err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP verified",
	})
}

type resendOtpRequest struct {
	UserID string `json:"userId"`
}

// ResendOtp issues a fresh code for a user whose earlier code never
// arrived. Prior live codes stay usable.
func (h *AuthHandler) ResendOtp(c *fiber.Ctx) error {
	var req resendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid userId")
	}

	if err := h.auth.ResendOtp(c.UserContext(), userID); err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent",
	})
}
