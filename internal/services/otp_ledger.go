package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
	"github.com/Jordieferoz/Pawnderr-backend/internal/utils"
)

// OtpLedger issues, verifies, and consumes OTP challenges. Challenges
// are append-only; issuing a new code does not invalidate earlier live
// ones, so a user who requested a resend can still use either code.
type OtpLedger struct {
	otps  storage.OtpStore
	users storage.UserStore
	ttl   time.Duration
	cost  int
}

// NewOtpLedger constructs an OtpLedger.
func NewOtpLedger(otps storage.OtpStore, users storage.UserStore, ttl time.Duration, cost int) *OtpLedger {
	return &OtpLedger{otps: otps, users: users, ttl: ttl, cost: cost}
}

// Issue generates a fresh code for the user and persists its hash. The
// returned plaintext exists only to be handed to the notification
// sender; it is never stored.
func (l *OtpLedger) Issue(ctx context.Context, userID uuid.UUID, method string) (string, error) {
	code, err := utils.GenerateOtpCode()
	if err != nil {
		return "", err
	}

	codeHash, err := utils.HashSecret(code, l.cost)
	if err != nil {
		return "", err
	}

	challenge := &models.OtpChallenge{
		UserID:    userID,
		CodeHash:  codeHash,
		Method:    method,
		ExpiresAt: time.Now().Add(l.ttl),
	}

	if err := l.otps.Create(ctx, challenge); err != nil {
		return "", err
	}

	return code, nil
}

// Verify checks the code against every live challenge for the user,
// newest first, and consumes the first match. Consumption is a
// conditional update, so of two concurrent attempts with the same code
// exactly one wins; the loser falls through and reports invalid. On
// success the user's email_verified flag flips true.
func (l *OtpLedger) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	challenges, err := l.otps.ListActive(ctx, userID, time.Now())
	if err != nil {
		return err
	}

	for _, challenge := range challenges {
		if !utils.CheckSecret(challenge.CodeHash, code) {
			continue
		}

		consumed, err := l.otps.Consume(ctx, challenge.ID)
		if err != nil {
			return err
		}
		if !consumed {
			// Lost the race; this challenge is spent.
			continue
		}

		return l.users.MarkEmailVerified(ctx, userID)
	}

	return ErrInvalidOrExpired
}
