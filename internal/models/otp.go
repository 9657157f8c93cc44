package models

import (
	"time"

	"github.com/google/uuid"
)

// OTP delivery methods.
const (
	MethodSMS   = "sms"
	MethodEmail = "email"
)

// OtpChallenge records a single issued OTP code. Codes are stored only as
// bcrypt hashes. Rows are never deleted: expired or consumed challenges
// simply become unmatchable, which keeps an audit trail of every issuance.
// A user may hold several live challenges at once; any of them verifies.
type OtpChallenge struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CodeHash  string    `json:"-"`
	Method    string    `json:"method"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expires_at"`
}
