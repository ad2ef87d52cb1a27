// Package auth is a mocked phone-number login: OTP delivery is simulated and
// any six-digit code is accepted for the latest request.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gofresh/internal/config"
	"gofresh/internal/metrics"
	"gofresh/internal/model"
	"gofresh/internal/scheduler"
	"gofresh/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// OTPRequest identifies one verification code delivery.
type OTPRequest struct {
	RequestID string    `json:"requestId"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterRequest holds the sign-up form.
type RegisterRequest struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// ProfileUpdate holds the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type pendingOTP struct {
	id        string
	phone     string
	delivered bool
	expiresAt time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// Service owns the current session user and the simulated user directory.
type Service struct {
	mu       sync.Mutex
	current  *model.User
	users    []model.StoredUser
	otp      *pendingOTP
	verified map[string]time.Time

	scheduler  scheduler.Scheduler
	otpDelay   time.Duration
	otpTTL     time.Duration
	bcryptCost int
	store      *store.BestEffort
	logger     zerolog.Logger
}

// NewService creates an auth service with nobody logged in.
func NewService(s store.Store, sched scheduler.Scheduler, cfg config.SimulationConfig, m *metrics.Metrics, logger zerolog.Logger, opts ...Option) *Service {
	logger = logger.With().Str("service", "auth").Logger()

	svc := &Service{
		verified:   make(map[string]time.Time),
		scheduler:  sched,
		otpDelay:   cfg.OTPDelay,
		otpTTL:     cfg.OTPTTL,
		bcryptCost: bcrypt.DefaultCost,
		store:      store.NewBestEffort(s, m, logger),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Load restores the user directory and the logged-in user.
func (s *Service) Load(ctx context.Context) {
	var users []model.StoredUser
	var current *model.User
	s.store.Load(ctx, store.KeyUsers, &users)
	s.store.Load(ctx, store.KeyUser, &current)

	s.mu.Lock()
	s.users = users
	if current != nil && current.ID != "" {
		s.current = current
	}
	s.mu.Unlock()

	s.logger.Info().
		Int("users", len(users)).
		Bool("logged_in", current != nil).
		Msg("auth state restored")
}

// SendOTP simulates sending a code to phone. A later call supersedes any
// request still in flight, which then fails with ErrOTPSuperseded.
func (s *Service) SendOTP(ctx context.Context, phone string) (OTPRequest, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return OTPRequest{}, err
	}

	pending := &pendingOTP{id: uuid.NewString(), phone: phone}
	s.mu.Lock()
	s.otp = pending
	s.mu.Unlock()

	if err := scheduler.Sleep(ctx, s.scheduler, s.otpDelay); err != nil {
		return OTPRequest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.otp != pending {
		return OTPRequest{}, model.ErrOTPSuperseded
	}
	pending.delivered = true
	pending.expiresAt = s.scheduler.Now().Add(s.otpTTL)

	s.logger.Info().Str("request_id", pending.id).Str("phone", maskPhone(phone)).Msg("otp sent")

	return OTPRequest{
		RequestID: pending.id,
		Phone:     phone,
		ExpiresAt: pending.expiresAt,
	}, nil
}

// VerifyOTP accepts any six-digit code for the latest delivered request.
// If the phone belongs to a registered user, that user is logged in and
// returned with registered=true; otherwise the phone is marked verified for Register.
func (s *Service) VerifyOTP(ctx context.Context, requestID, phone, code string) (*model.User, bool, error) {
	if !isSixDigits(code) {
		return nil, false, model.ErrInvalidOTP
	}
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.otp == nil:
		return nil, false, model.ErrInvalidOTP
	case s.otp.id != requestID:
		return nil, false, model.ErrOTPSuperseded
	case !s.otp.delivered || s.otp.phone != phone:
		return nil, false, model.ErrInvalidOTP
	}

	now := s.scheduler.Now()
	if now.After(s.otp.expiresAt) {
		s.otp = nil
		return nil, false, model.ErrOTPExpired
	}

	s.otp = nil
	s.verified[phone] = now

	if stored := s.findByPhone(phone); stored != nil {
		s.login(ctx, stored.User)
		s.logger.Info().Str("user_id", stored.ID).Msg("user logged in with otp")
		u := stored.User
		return &u, true, nil
	}

	return nil, false, nil
}

// Register creates an account for a phone verified within the OTP lifetime and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.ErrMissingField
	}
	if len(req.Password) < minPasswordLength {
		return nil, model.ErrInvalidPasswordLength
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	verifiedAt, ok := s.verified[phone]
	if !ok || s.scheduler.Now().Sub(verifiedAt) > s.otpTTL {
		return nil, model.ErrPhoneNotVerified
	}
	if s.findByPhone(phone) != nil {
		return nil, model.ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := model.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     phone,
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: s.scheduler.Now(),
	}
	s.users = append(s.users, model.StoredUser{User: user, PasswordHash: string(hash)})
	delete(s.verified, phone)

	s.store.Save(ctx, store.KeyUsers, s.users)
	s.login(ctx, user)

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return &user, nil
}

// Login checks a phone and password against the directory.
func (s *Service) Login(ctx context.Context, phone, password string) (*model.User, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.findByPhone(phone)
	if stored == nil {
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Error().Err(err).Str("user_id", stored.ID).Msg("failed to compare password hash")
		}
		return nil, model.ErrInvalidCredentials
	}

	s.login(ctx, stored.User)
	s.logger.Info().Str("user_id", stored.ID).Msg("user logged in with password")

	u := stored.User
	return &u, nil
}

// Logout clears the current user.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.logger.Info().Str("user_id", s.current.ID).Msg("user logged out")
	}
	s.current = nil
	s.store.Remove(ctx, store.KeyUser)
}

// CurrentUser returns a copy of the logged-in user.
func (s *Service) CurrentUser() (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}
	u := *s.current
	return &u, true
}

// CurrentUserID returns the logged-in user's id, or the guest id.
func (s *Service) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.GuestUserID
	}
	return s.current.ID
}

// UpdateProfile edits the logged-in user in both the session and the directory.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, model.ErrUserNotFound
	}

	u := *s.current
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, model.ErrMissingField
		}
		u.Name = name
	}
	if update.Email != nil {
		u.Email = strings.TrimSpace(*update.Email)
	}
	if update.Address != nil {
		u.Address = strings.TrimSpace(*update.Address)
	}

	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i].User = u
		}
	}
	s.store.Save(ctx, store.KeyUsers, s.users)
	s.login(ctx, u)

	return &u, nil
}

// DefaultShippingAddress prefills checkout from the logged-in profile.
func (s *Service) DefaultShippingAddress() model.ShippingAddress {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.ShippingAddress{}
	}
	return model.ShippingAddress{
		Name:    s.current.Name,
		Phone:   s.current.Phone,
		Address: s.current.Address,
	}
}

// login sets and persists the current user. Caller holds s.mu.
func (s *Service) login(ctx context.Context, u model.User) {
	s.current = &u
	s.store.Save(ctx, store.KeyUser, u)
}

// findByPhone returns the directory entry for phone. Caller holds s.mu.
func (s *Service) findByPhone(phone string) *model.StoredUser {
	for i := range s.users {
		if s.users[i].Phone == phone {
			return &s.users[i]
		}
	}
	return nil
}

// normalizePhone strips separators and requires a 10 or 11 digit number.
func normalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ':
		default:
			return "", model.ErrInvalidPhoneFormat
		}
	}

	digits := b.String()
	if len(digits) < 10 || len(digits) > 11 {
		return "", model.ErrInvalidPhoneFormat
	}
	return digits, nil
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func maskPhone(phone string) string {
	if len(phone) < 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
