// Package storagetest provides in-memory store implementations with the
// same conditional-update semantics as the Postgres stores, for use in
// tests that exercise the service and HTTP layers without a database.
package storagetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
)

// MemUserStore is a mutex-guarded in-memory storage.UserStore.
type MemUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

// NewMemUserStore constructs an empty MemUserStore.
func NewMemUserStore() *MemUserStore {
	return &MemUserStore{users: map[uuid.UUID]*models.User{}}
}

func (s *MemUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return storage.ErrDuplicate
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *MemUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *MemUserStore) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	if email, ok := fields["email"].(string); ok {
		for _, existing := range s.users {
			if existing.ID != id && strings.EqualFold(existing.Email, email) {
				return storage.ErrDuplicate
			}
		}
	}
	applyUserFields(user, fields)
	return nil
}

func (s *MemUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemUserStore) List(ctx context.Context, offset, limit int, search string) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.User
	for _, user := range s.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Email), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(user.Name), strings.ToLower(search)) &&
			!strings.Contains(user.Phone, search) {
			continue
		}
		matched = append(matched, *user)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *MemUserStore) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		user.EmailVerified = true
	}
	return nil
}

func (s *MemUserStore) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	return nil
}

func (s *MemUserStore) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ResetToken == nil || *user.ResetToken != token {
			continue
		}
		if user.ResetTokenExpiry == nil || !user.ResetTokenExpiry.After(now) {
			continue
		}
		user.PasswordHash = passwordHash
		user.ResetToken = nil
		user.ResetTokenExpiry = nil
		return true, nil
	}
	return false, nil
}

func (s *MemUserStore) Stats(ctx context.Context, now time.Time) (*storage.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &storage.UserStats{}
	for _, user := range s.users {
		stats.TotalUsers++
		if user.EmailVerified {
			stats.VerifiedUsers++
		}
		if user.Role == models.RoleAdmin {
			stats.AdminUsers++
		}
		if user.CreatedAt.After(now.AddDate(0, 0, -30)) {
			stats.NewUsersLast30Days++
		}
	}
	stats.UnverifiedUsers = stats.TotalUsers - stats.VerifiedUsers
	stats.RegularUsers = stats.TotalUsers - stats.AdminUsers
	return stats, nil
}

func applyUserFields(user *models.User, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "email":
			user.Email = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "name":
			user.Name = value.(string)
		case "role":
			user.Role = value.(string)
		case "email_verified":
			user.EmailVerified = value.(bool)
		case "password_hash":
			user.PasswordHash = value.(string)
		case "updated_at":
			user.UpdatedAt = value.(time.Time)
		}
	}
}

// MemOtpStore is a mutex-guarded in-memory storage.OtpStore.
type MemOtpStore struct {
	mu         sync.Mutex
	challenges []*models.OtpChallenge
	seq        int
}

// NewMemOtpStore constructs an empty MemOtpStore.
func NewMemOtpStore() *MemOtpStore {
	return &MemOtpStore{}
}

func (s *MemOtpStore) Create(ctx context.Context, challenge *models.OtpChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	// Monotonic timestamps so newest-first ordering is deterministic even
	// when two challenges are issued within one clock tick.
	s.seq++
	challenge.CreatedAt = time.Now().Add(time.Duration(s.seq) * time.Microsecond)

	clone := *challenge
	s.challenges = append(s.challenges, &clone)
	return nil
}

func (s *MemOtpStore) ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []models.OtpChallenge
	for _, challenge := range s.challenges {
		if challenge.UserID == userID && !challenge.Verified && challenge.ExpiresAt.After(now) {
			active = append(active, *challenge)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}

func (s *MemOtpStore) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, challenge := range s.challenges {
		if challenge.ID == id {
			if challenge.Verified {
				return false, nil
			}
			challenge.Verified = true
			return true, nil
		}
	}
	return false, nil
}

// All returns a snapshot of every stored challenge.
func (s *MemOtpStore) All() []models.OtpChallenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.OtpChallenge, len(s.challenges))
	for i, challenge := range s.challenges {
		out[i] = *challenge
	}
	return out
}
