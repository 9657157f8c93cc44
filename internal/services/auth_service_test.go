package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jordieferoz/Pawnderr-backend/internal/models"
	"github.com/Jordieferoz/Pawnderr-backend/internal/storage"
	"github.com/Jordieferoz/Pawnderr-backend/internal/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	userID, err := fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, userID)

	// OTP went out by email since no phone was given.
	otp, ok := fx.sender.lastOtp()
	require.True(t, ok, "expected an OTP dispatch")
	assert.Equal(t, models.MethodEmail, otp.Method)
	assert.Equal(t, "a@x.com", otp.Destination)
	assert.Len(t, otp.Code, utils.OtpCodeLength)

	token, err := fx.auth.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	gotID, gotEmail, err := utils.ParseToken(fx.cfg.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "a@x.com", gotEmail)
}

func TestRegister_SmsPreferredWhenPhonePresent(t *testing.T) {
	t.Parallel()

	fx := newFixture()

	_, err := fx.auth.Register(context.Background(), "b@x.com", "secret1", "+15550001111", "Bob")
	require.NoError(t, err)

	otp, ok := fx.sender.lastOtp()
	require.True(t, ok)
	assert.Equal(t, models.MethodSMS, otp.Method)
	assert.Equal(t, "+15550001111", otp.Destination)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	_, err := fx.auth.Register(ctx, "", "secret1", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.auth.Register(ctx, "a@x.com", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)

	// Duplicate check is case-insensitive.
	_, err = fx.auth.Register(ctx, "A@X.com", "other", "", "Imposter")
	assert.ErrorIs(t, err, ErrConflict)
}

// blindLookupStore never finds a user by email, so every registration
// sails past the pre-insert duplicate check the way two concurrent
// registrations would.
type blindLookupStore struct {
	storage.UserStore
}

func (s *blindLookupStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func TestRegister_RacingDuplicateIsConflict(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	auth := NewAuthService(&blindLookupStore{UserStore: fx.users}, fx.ledger, fx.sender, fx.cfg)
	ctx := context.Background()

	_, err := auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)

	// The loser of the race hits the unique index, not the pre-check,
	// and still comes back as a conflict rather than a raw store error.
	_, err = auth.Register(ctx, "a@x.com", "other", "", "Imposter")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_SucceedsWhenDeliveryFails(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	fx.sender.fail = true

	userID, err := fx.auth.Register(context.Background(), "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)

	// User and challenge are persisted despite the failed dispatch; the
	// client recovers via resend.
	user, err := fx.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.Len(t, fx.otps.All(), 1)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	_, err := fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)

	_, wrongPassword := fx.auth.Login(ctx, "a@x.com", "wrong")
	_, unknownEmail := fx.auth.Login(ctx, "ghost@x.com", "whatever")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestVerifyOtp_Lifecycle(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	userID, err := fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)
	otp, _ := fx.sender.lastOtp()

	// Wrong code fails and leaves the flag untouched.
	err = fx.auth.VerifyOtp(ctx, userID, "000000")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
	user, _ := fx.users.GetByID(ctx, userID)
	assert.False(t, user.EmailVerified)

	// Correct code flips it exactly once.
	require.NoError(t, fx.auth.VerifyOtp(ctx, userID, otp.Code))
	user, _ = fx.users.GetByID(ctx, userID)
	assert.True(t, user.EmailVerified)

	// Replay of a consumed code fails.
	err = fx.auth.VerifyOtp(ctx, userID, otp.Code)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	// The consumed challenge is retained, not deleted.
	challenges := fx.otps.All()
	require.Len(t, challenges, 1)
	assert.True(t, challenges[0].Verified)
}

func TestVerifyOtp_AnyLiveCodeWorks(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	userID, err := fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)
	first, _ := fx.sender.lastOtp()

	require.NoError(t, fx.auth.ResendOtp(ctx, userID))
	second, _ := fx.sender.lastOtp()
	require.NotEqual(t, first.Code, second.Code)

	// The older code remains valid after a resend.
	require.NoError(t, fx.auth.VerifyOtp(ctx, userID, first.Code))
}

func TestResendOtp_UnknownUser(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	err := fx.auth.ResendOtp(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordReset_RoundTrip(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	_, err := fx.auth.Register(ctx, "a@x.com", "old-password", "", "Alice")
	require.NoError(t, err)

	require.NoError(t, fx.auth.RequestPasswordReset(ctx, "a@x.com"))
	reset, ok := fx.sender.lastReset()
	require.True(t, ok, "expected a reset link dispatch")
	assert.Equal(t, "a@x.com", reset.Email)

	require.NoError(t, fx.auth.ResetPassword(ctx, reset.Token, "new-password"))

	// Second submission of the same token fails.
	err = fx.auth.ResetPassword(ctx, reset.Token, "sneaky")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	_, err = fx.auth.Login(ctx, "a@x.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = fx.auth.Login(ctx, "a@x.com", "new-password")
	assert.NoError(t, err)
}

func TestPasswordReset_ReRequestReplacesToken(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	_, err := fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)

	require.NoError(t, fx.auth.RequestPasswordReset(ctx, "a@x.com"))
	first, _ := fx.sender.lastReset()

	require.NoError(t, fx.auth.RequestPasswordReset(ctx, "a@x.com"))
	second, _ := fx.sender.lastReset()
	require.NotEqual(t, first.Token, second.Token)

	// Only the latest token is live.
	err = fx.auth.ResetPassword(ctx, first.Token, "new-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
	assert.NoError(t, fx.auth.ResetPassword(ctx, second.Token, "new-password"))
}

func TestPasswordReset_ExpiredToken(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	userID, err := fx.auth.Register(ctx, "a@x.com", "secret1", "", "Alice")
	require.NoError(t, err)

	token, err := utils.GenerateResetToken()
	require.NoError(t, err)
	require.NoError(t, fx.users.SetResetToken(ctx, userID, token, time.Now().Add(-time.Minute)))

	err = fx.auth.ResetPassword(ctx, token, "new-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ctx := context.Background()

	// Reference behavior: the absence leaks as not-found.
	err := fx.auth.RequestPasswordReset(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// Hardened mode answers success without dispatching anything.
	fx.cfg.RevealUnknownEmail = false
	require.NoError(t, fx.auth.RequestPasswordReset(ctx, "ghost@x.com"))
	_, sent := fx.sender.lastReset()
	assert.False(t, sent)
}
