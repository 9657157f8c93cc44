package utils

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret returns a bcrypt hash of the provided secret at the given
// cost. Passwords and OTP codes go through the same function: both are
// low-entropy secrets that need a slow hash, not a fast digest.
func HashSecret(secret string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	return string(bytes), err
}

// CheckSecret compares a bcrypt digest with a plaintext secret. A
// malformed digest counts as a mismatch, never an error to the caller.
func CheckSecret(digest, secret string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
	if err != nil && err != bcrypt.ErrMismatchedHashAndPassword {
		log.Printf("secret check against malformed digest: %v", err)
	}
	return err == nil
}
