package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
	"github.com/Jordieferoz/Pawnderr-backend/internal/utils"
)

func TestOtpLedger_IssueStoresHashOnly(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()
	userID := uuid.New()

	code, err := fx.ledger.Issue(ctx, userID, models.MethodEmail)
	require.NoError(t, err)
	require.Len(t, code, utils.OtpCodeLength)

	challenges := fx.otps.All()
	require.Len(t, challenges, 1)
	assert.NotEqual(t, code, challenges[0].CodeHash)
	assert.True(t, utils.CheckSecret(challenges[0].CodeHash, code))
	assert.Equal(t, models.MethodEmail, challenges[0].Method)
	assert.False(t, challenges[0].Verified)
}

func TestOtpLedger_ExpiredCodeRejected(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()
	userID := uuid.New()

	expired := NewOtpLedger(fx.otps, fx.users, -time.Minute, fx.cfg.BcryptCost)
	code, err := expired.Issue(ctx, userID, models.MethodEmail)
	require.NoError(t, err)

	err = fx.ledger.Verify(ctx, userID, code)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestOtpLedger_ConcurrentVerify(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	userID, err := fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)
	otp, _ := fx.sender.lastOtp()

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = fx.ledger.Verify(ctx, userID, otp.Code)
		}(i)
	}
	wg.Wait()

	// Exactly one attempt wins; the loser observes the challenge already
	// consumed and reports invalid, never a crash.
	var successes, failures int
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrInvalidOrExpired)
			failures++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)

	user, err := fx.users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestOtpLedger_ScansNewestFirst(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := fx.ledger.Issue(ctx, userID, models.MethodEmail)
	require.NoError(t, err)
	newest, err := fx.ledger.Issue(ctx, userID, models.MethodEmail)
	require.NoError(t, err)

	active, err := fx.otps.ListActive(ctx, userID, time.Now())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.True(t, utils.CheckSecret(active[0].CodeHash, newest))
}
