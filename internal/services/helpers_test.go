package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Jordieferoz/Pawnderr-backend/internal/config"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage/storagetest"
)

type sentOtp struct {
	Destination string
	Method      string
	Code        string
}

type sentReset struct {
	Email string
	Token string
}

// captureSender records every dispatched notification and can be told to
// fail, standing in for a flaky delivery provider.
type captureSender struct {
	mu     sync.Mutex
	otps   []sentOtp
	resets []sentReset
	fail   bool
}

func (s *captureSender) SendOtp(ctx context.Context, destination, method, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("delivery provider unavailable")
	}
	s.otps = append(s.otps, sentOtp{Destination: destination, Method: method, Code: code})
	return nil
}

func (s *captureSender) SendResetLink(ctx context.Context, email, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("delivery provider unavailable")
	}
	s.resets = append(s.resets, sentReset{Email: email, Token: token})
	return nil
}

func (s *captureSender) lastOtp() (sentOtp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.otps) == 0 {
		return sentOtp{}, false
	}
	return s.otps[len(s.otps)-1], true
}

func (s *captureSender) lastReset() (sentReset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.resets) == 0 {
		return sentReset{}, false
	}
	return s.resets[len(s.resets)-1], true
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		TokenExpires:       time.Hour,
		OtpTTL:             5 * time.Minute,
		ResetTokenTTL:      15 * time.Minute,
		BcryptCost:         bcrypt.MinCost,
		RevealUnknownEmail: true,
	}
}

type fixture struct {
	users  *storagetest.MemUserStore
	otps   *storagetest.MemOtpStore
	sender *captureSender
	ledger *OtpLedger
	auth   *AuthService
	cfg    *config.Config
}

func newFixture() *fixture {
	cfg := testConfig()
	users := storagetest.NewMemUserStore()
	otps := storagetest.NewMemOtpStore()
	sender := &captureSender{}
	ledger := NewOtpLedger(otps, users, cfg.OtpTTL, cfg.BcryptCost)

	return &fixture{
		users:  users,
		otps:   otps,
		sender: sender,
		ledger: ledger,
		auth:   NewAuthService(users, ledger, sender, cfg),
		cfg:    cfg,
	}
}
