package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jordieferoz/Pawnderr-backend/internal/config"
	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
	"github.com/Jordieferoz/Pawnderr-backend/internal/notify"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
	"github.com/Jordieferoz/Pawnderr-backend/internal/utils"
)

// AuthService orchestrates registration, login, OTP verification, and
// the password-reset flow.
type AuthService struct {
	users  storage.UserStore
	ledger *OtpLedger
	sender notify.Sender
	cfg    *config.Config
}

// NewAuthService constructs an AuthService.
func NewAuthService(users storage.UserStore, ledger *OtpLedger, sender notify.Sender, cfg *config.Config) *AuthService {
	return &AuthService{users: users, ledger: ledger, sender: sender, cfg: cfg}
}

// Register creates an account, issues an OTP, and dispatches it over SMS
// when a phone is present, otherwise email. The user and challenge are
// persisted before dispatch: a delivery failure is logged, never rolled
// back, and the client recovers via resend.
func (s *AuthService) Register(ctx context.Context, email, password, phone, name string) (uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return uuid.Nil, ErrInvalidInput
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return uuid.Nil, ErrConflict
	} else if !errors.Is(err, storage.ErrNotFound) {
		return uuid.Nil, err
	}

	passwordHash, err := utils.HashSecret(password, s.cfg.BcryptCost)
	if err != nil {
		return uuid.Nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        phone,
		Name:         name,
		Role:         models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Two registrations can race past the lookup above; the unique
		// index decides the loser.
		if errors.Is(err, storage.ErrDuplicate) {
			return uuid.Nil, ErrConflict
		}
		return uuid.Nil, err
	}

	if err := s.issueAndDispatchOtp(ctx, user); err != nil {
		log.Printf("OTP delivery failed for user %s: %v", user.ID, err)
	}

	return user.ID, nil
}

// Login verifies credentials and mints a session token. Unknown email
// and wrong password return the identical error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !utils.CheckSecret(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateToken(s.cfg.JWTSecret, user.ID, user.Email, s.cfg.TokenExpires)
}

// VerifyOtp consumes a matching live challenge for the user.
func (s *AuthService) VerifyOtp(ctx context.Context, userID uuid.UUID, code string) error {
	if code == "" {
		return ErrInvalidInput
	}
	return s.ledger.Verify(ctx, userID, code)
}

// ResendOtp issues and dispatches a fresh challenge. Earlier live codes
// remain usable.
func (s *AuthService) ResendOtp(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.issueAndDispatchOtp(ctx, user)
}

// RequestPasswordReset stores a fresh reset token on the user row,
// replacing any prior unused one, and emails the reset link. For an
// unknown email the reference behavior (404) applies unless
// RevealUnknownEmail is disabled, in which case the caller sees success.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if s.cfg.RevealUnknownEmail {
				return ErrNotFound
			}
			return nil
		}
		return err
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	if err := s.users.SetResetToken(ctx, user.ID, token, time.Now().Add(s.cfg.ResetTokenTTL)); err != nil {
		return err
	}

	if err := s.sender.SendResetLink(ctx, user.Email, token); err != nil {
		log.Printf("reset link delivery failed for user %s: %v", user.ID, err)
	}

	return nil
}

// ResetPassword replaces the password and clears the reset token in one
// conditional update; a second submission of the same token fails.
// Existing session tokens stay valid until natural expiry.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrInvalidInput
	}

	passwordHash, err := utils.HashSecret(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	consumed, err := s.users.ConsumeResetToken(ctx, token, passwordHash, time.Now())
	if err != nil {
		return err
	}
	if !consumed {
		return ErrInvalidOrExpired
	}

	return nil
}

func (s *AuthService) issueAndDispatchOtp(ctx context.Context, user *models.User) error {
	method := models.MethodEmail
	destination := user.Email
	if user.Phone != "" {
		method = models.MethodSMS
		destination = user.Phone
	}

	code, err := s.ledger.Issue(ctx, user.ID, method)
	if err != nil {
		return err
	}

	return s.sender.SendOtp(ctx, destination, method, code)
}
