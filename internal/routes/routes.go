package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Jordieferoz/Pawnderr-backend/internal/config"
	"github.com/Jordieferoz/Pawnderr-backend/internal/handlers"
	"github.com/Jordieferoz/Pawnderr-backend/internal/middleware"
	"github.com/Jordieferoz/Pawnderr-backend/internal/notify"
	"github.com/Jordieferoz/Pawnderr-backend/internal/services"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	users := storage.NewGormUserStore(db)
	otps := storage.NewGormOtpStore(db)

	sender := notify.NewService(cfg)
	ledger := services.NewOtpLedger(otps, users, cfg.OtpTTL, cfg.BcryptCost)
	authService := services.NewAuthService(users, ledger, sender, cfg)

	authHandler := handlers.NewAuthHandler(authService)
	resetHandler := handlers.NewPasswordResetHandler(authService)
	profileHandler := handlers.NewProfileHandler(users)
	adminHandler := handlers.NewAdminHandler(users, cfg.BcryptCost)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-otp", authHandler.VerifyOtp)
	auth.Post("/resend-otp", authHandler.ResendOtp)
	auth.Post("/forgot-password", resetHandler.ForgotPassword)
	auth.Post("/reset-password", resetHandler.ResetPassword)

	// Protected routes
	protected := api.Group("", middleware.RequireAuth(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/users/:id", profileHandler.GetUser)

	// Admin routes: role is re-checked against the store per request.
	admin := protected.Group("/admin", middleware.RequireAdmin(users))
	admin.Get("/dashboard/stats", adminHandler.DashboardStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Post("/users/:id/reset-password", adminHandler.ResetUserPassword)
}
