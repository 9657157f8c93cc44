package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
)

// OtpStore persists OTP challenges. Challenges are append-only: nothing
// here deletes rows.
type OtpStore interface {
	Create(ctx context.Context, challenge *models.OtpChallenge) error
	// ListActive returns unverified, unexpired challenges for the user,
	// newest first.
	ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.OtpChallenge, error)
	// Consume marks a challenge verified, guarded on it being unverified.
	// Returns false when another request already consumed it.
	Consume(ctx context.Context, id uuid.UUID) (bool, error)
}

// GormOtpStore is the Postgres-backed OtpStore.
type GormOtpStore struct {
	db *gorm.DB
}

// NewGormOtpStore constructs a GormOtpStore.
func NewGormOtpStore(db *gorm.DB) *GormOtpStore {
	return &GormOtpStore{db: db}
}

func (s *GormOtpStore) Create(ctx context.Context, challenge *models.OtpChallenge) error {
	return s.db.WithContext(ctx).Create(challenge).Error
}

func (s *GormOtpStore) ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.OtpChallenge, error) {
	var challenges []models.OtpChallenge
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND verified = ? AND expires_at > ?", userID, false, now).
		Order("created_at desc").
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func (s *GormOtpStore) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.OtpChallenge{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
