package auth

import (
	"context"
	"testing"
	"time"

	"gofresh/internal/config"
	"gofresh/internal/model"
	"gofresh/internal/scheduler"
	"gofresh/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, delay time.Duration) (*Service, *scheduler.Fake, *store.MemoryStore) {
	t.Helper()
	clock := scheduler.NewFake(epoch)
	s := store.NewMemoryStore()
	cfg := config.SimulationConfig{OTPDelay: delay, OTPTTL: 3 * time.Minute}
	return NewService(s, clock, cfg, nil, zerolog.Nop(), WithBcryptCost(bcrypt.MinCost)), clock, s
}

// registerUser runs the full OTP sign-up flow.
func registerUser(t *testing.T, svc *Service, phone, password string) *model.User {
	t.Helper()
	ctx := context.Background()

	req, err := svc.SendOTP(ctx, phone)
	require.NoError(t, err)
	_, registered, err := svc.VerifyOTP(ctx, req.RequestID, phone, "123456")
	require.NoError(t, err)
	require.False(t, registered)

	user, err := svc.Register(ctx, RegisterRequest{
		Phone:    phone,
		Name:     "Kim Minji",
		Email:    "minji@example.com",
		Address:  "Seoul Gangnam-gu",
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "010-1234-5678", want: "01012345678"},
		{input: "010 1234 5678", want: "01012345678"},
		{input: "0212345678", want: "0212345678"},
		{input: "12345", wantErr: true},
		{input: "010-1234-56789", wantErr: true},
		{input: "010-abcd-5678", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := normalizePhone(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidPhoneFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newService(t, 0)
	ctx := context.Background()

	assert.Equal(t, model.GuestUserID, svc.CurrentUserID())

	user := registerUser(t, svc, "010-1234-5678", "s3cret-pass")
	assert.Equal(t, "01012345678", user.Phone)
	assert.Equal(t, epoch, user.CreatedAt)
	assert.Equal(t, user.ID, svc.CurrentUserID())

	svc.Logout(ctx)
	_, ok := svc.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, model.GuestUserID, svc.CurrentUserID())

	_, err := svc.Login(ctx, "01012345678", "wrong-password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "01099999999", "s3cret-pass")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	loggedIn, err := svc.Login(ctx, "010-1234-5678", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestVerifyOTP_RegisteredUserLogsIn(t *testing.T) {
	svc, _, _ := newService(t, 0)
	ctx := context.Background()

	user := registerUser(t, svc, "01012345678", "s3cret-pass")
	svc.Logout(ctx)

	req, err := svc.SendOTP(ctx, "01012345678")
	require.NoError(t, err)
	got, registered, err := svc.VerifyOTP(ctx, req.RequestID, "01012345678", "000000")
	require.NoError(t, err)
	assert.True(t, registered)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.ID, svc.CurrentUserID())
}

func TestVerifyOTP_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("code must be six digits", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		req, err := svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)

		for _, code := range []string{"12345", "1234567", "12a456", ""} {
			_, _, err := svc.VerifyOTP(ctx, req.RequestID, "01012345678", code)
			assert.ErrorIs(t, err, model.ErrInvalidOTP, code)
		}
	})

	t.Run("no request", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		_, _, err := svc.VerifyOTP(ctx, "unknown", "01012345678", "123456")
		assert.ErrorIs(t, err, model.ErrInvalidOTP)
	})

	t.Run("other phone", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		req, err := svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)
		_, _, err = svc.VerifyOTP(ctx, req.RequestID, "01087654321", "123456")
		assert.ErrorIs(t, err, model.ErrInvalidOTP)
	})

	t.Run("older request", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		first, err := svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)
		_, err = svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)

		_, _, err = svc.VerifyOTP(ctx, first.RequestID, "01012345678", "123456")
		assert.ErrorIs(t, err, model.ErrOTPSuperseded)
	})

	t.Run("expired", func(t *testing.T) {
		svc, clock, _ := newService(t, 0)
		req, err := svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)
		assert.Equal(t, epoch.Add(3*time.Minute), req.ExpiresAt)

		clock.Advance(3*time.Minute + time.Second)
		_, _, err = svc.VerifyOTP(ctx, req.RequestID, "01012345678", "123456")
		assert.ErrorIs(t, err, model.ErrOTPExpired)
	})

	t.Run("single use", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		req, err := svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)
		_, _, err = svc.VerifyOTP(ctx, req.RequestID, "01012345678", "123456")
		require.NoError(t, err)

		_, _, err = svc.VerifyOTP(ctx, req.RequestID, "01012345678", "123456")
		assert.ErrorIs(t, err, model.ErrInvalidOTP)
	})
}

func TestSendOTP_WaitsForDelayAndSupersedes(t *testing.T) {
	svc, clock, _ := newService(t, time.Second)
	ctx := context.Background()

	type result struct {
		req OTPRequest
		err error
	}
	first := make(chan result, 1)
	second := make(chan result, 1)

	go func() {
		req, err := svc.SendOTP(ctx, "01012345678")
		first <- result{req, err}
	}()
	require.Eventually(t, func() bool { return clock.Pending() == 1 }, time.Second, time.Millisecond)

	go func() {
		req, err := svc.SendOTP(ctx, "01012345678")
		second <- result{req, err}
	}()
	require.Eventually(t, func() bool { return clock.Pending() == 2 }, time.Second, time.Millisecond)

	clock.Advance(time.Second)

	r1 := <-first
	assert.ErrorIs(t, r1.err, model.ErrOTPSuperseded)

	r2 := <-second
	require.NoError(t, r2.err)
	assert.Equal(t, epoch.Add(time.Second+3*time.Minute), r2.req.ExpiresAt)

	_, _, err := svc.VerifyOTP(ctx, r2.req.RequestID, "01012345678", "654321")
	assert.NoError(t, err)
}

func TestSendOTP_Cancelled(t *testing.T) {
	svc, clock, _ := newService(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendOTP(ctx, "01012345678")
		done <- err
	}()
	require.Eventually(t, func() bool { return clock.Pending() == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("phone not verified", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		_, err := svc.Register(ctx, RegisterRequest{Phone: "01012345678", Name: "Kim", Password: "password1"})
		assert.ErrorIs(t, err, model.ErrPhoneNotVerified)
	})

	t.Run("verification too old", func(t *testing.T) {
		svc, clock, _ := newService(t, 0)
		req, err := svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)
		_, _, err = svc.VerifyOTP(ctx, req.RequestID, "01012345678", "123456")
		require.NoError(t, err)

		clock.Advance(10 * time.Minute)
		_, err = svc.Register(ctx, RegisterRequest{Phone: "01012345678", Name: "Kim", Password: "password1"})
		assert.ErrorIs(t, err, model.ErrPhoneNotVerified)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		_, err := svc.Register(ctx, RegisterRequest{Phone: "01012345678", Name: "Kim", Password: "short"})
		assert.ErrorIs(t, err, model.ErrInvalidPasswordLength)
	})

	t.Run("missing name", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		_, err := svc.Register(ctx, RegisterRequest{Phone: "01012345678", Name: "  ", Password: "password1"})
		assert.ErrorIs(t, err, model.ErrMissingField)
	})

	t.Run("phone taken", func(t *testing.T) {
		svc, _, _ := newService(t, 0)
		registerUser(t, svc, "01012345678", "password1")

		req, err := svc.SendOTP(ctx, "01012345678")
		require.NoError(t, err)
		// Registered phones log in on verification but may not register again.
		_, registered, err := svc.VerifyOTP(ctx, req.RequestID, "01012345678", "123456")
		require.NoError(t, err)
		require.True(t, registered)

		_, err = svc.Register(ctx, RegisterRequest{Phone: "01012345678", Name: "Other", Password: "password2"})
		assert.ErrorIs(t, err, model.ErrPhoneTaken)
	})
}

func TestUpdateProfileAndDefaultAddress(t *testing.T) {
	svc, _, _ := newService(t, 0)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, ProfileUpdate{})
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.Equal(t, model.ShippingAddress{}, svc.DefaultShippingAddress())

	registerUser(t, svc, "01012345678", "password1")

	address := "Busan Haeundae-gu"
	updated, err := svc.UpdateProfile(ctx, ProfileUpdate{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, address, updated.Address)
	assert.Equal(t, "Kim Minji", updated.Name)

	blank := " "
	_, err = svc.UpdateProfile(ctx, ProfileUpdate{Name: &blank})
	assert.ErrorIs(t, err, model.ErrMissingField)

	assert.Equal(t, model.ShippingAddress{
		Name:    "Kim Minji",
		Phone:   "01012345678",
		Address: address,
	}, svc.DefaultShippingAddress())
}

func TestPersistence(t *testing.T) {
	svc, clock, s := newService(t, 0)
	ctx := context.Background()

	user := registerUser(t, svc, "01012345678", "password1")

	// The session projection never carries the credential.
	raw, err := s.Get(ctx, store.KeyUser)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "passwordHash")

	raw, err = s.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "passwordHash")

	restored := NewService(s, clock, config.SimulationConfig{OTPTTL: time.Minute}, nil, zerolog.Nop(), WithBcryptCost(bcrypt.MinCost))
	restored.Load(ctx)
	assert.Equal(t, user.ID, restored.CurrentUserID())

	restored.Logout(ctx)
	_, err = s.Get(ctx, store.KeyUser)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	_, err = restored.Login(ctx, "01012345678", "password1")
	assert.NoError(t, err)
}
