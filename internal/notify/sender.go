package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/Jordieferoz/Pawnderr-backend/internal/config"
	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
)

// Sender delivers OTP codes and reset links out of band. Delivery
// failures never unwind identity state that is already persisted; callers
// log and move on.
type Sender interface {
	SendOtp(ctx context.Context, destination, method, code string) error
	SendResetLink(ctx context.Context, email, token string) error
}

// Service routes notifications to the configured providers: SES for
// email, the Twilio REST API for SMS. A provider left unconfigured logs
// and drops the message instead of failing the request.
type Service struct {
	email       *sesSender
	sms         *twilioSender
	frontendURL string
}

// NewService builds a Service from configuration.
func NewService(cfg *config.Config) *Service {
	svc := &Service{frontendURL: cfg.FrontendURL}

	if cfg.AWSRegion != "" && cfg.EmailFrom != "" {
		email, err := newSESSender(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.EmailFrom)
		if err != nil {
			log.Printf("[notify] SES init failed: %v", err)
		} else {
			svc.email = email
		}
	}

	if cfg.TwilioAccountSID != "" {
		svc.sms = newTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}

	return svc
}

// SendOtp delivers a verification code via the requested method.
func (s *Service) SendOtp(ctx context.Context, destination, method, code string) error {
	switch method {
	case models.MethodSMS:
		if s.sms == nil {
			log.Println("[notify] SMS provider not configured")
			return nil
		}
		body := fmt.Sprintf("Your Pawnderr verification code is: %s.", code)
		return s.sms.sendSMS(ctx, destination, body)
	case models.MethodEmail:
		if s.email == nil {
			log.Println("[notify] email provider not configured")
			return nil
		}
		html := fmt.Sprintf("<p>Your Pawnderr OTP is <b>%s</b>.</p>", code)
		return s.email.sendEmail(ctx, destination, "Pawnderr OTP", html)
	default:
		return fmt.Errorf("unknown delivery method %q", method)
	}
}

// SendResetLink emails a password-reset link built from the frontend URL.
func (s *Service) SendResetLink(ctx context.Context, email, token string) error {
	if s.email == nil {
		log.Println("[notify] email provider not configured")
		return nil
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	html := fmt.Sprintf(
		"<p>You requested a password reset. Click here to reset your password:</p><p><a href=%q>%s</a></p><p>This link will expire soon.</p>",
		resetURL, resetURL,
	)
	return s.email.sendEmail(ctx, email, "Password Reset Request", html)
}
