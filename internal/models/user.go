package models

import (
	"time"
)

// User roles. Authorization is a check of the current value at request
// time, never a property baked into issued tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the identity store. Emails are stored
// lowercase and compared case-insensitively. ResetToken and
// ResetTokenExpiry are always written together: both set while a reset
// is pending, both NULL otherwise.
type User struct {
	BaseModel
	Email            string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash     string     `json:"-"`
	Phone            string     `json:"phone,omitempty"`
	Name             string     `json:"name"`
	EmailVerified    bool       `json:"email_verified"`
	Role             string     `gorm:"default:user" json:"role"`
	ResetToken       *string    `gorm:"uniqueIndex" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// IsAdmin reports whether the user currently holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
