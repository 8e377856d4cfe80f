package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"booking_backend/internal/feature/auth/domain"
	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/platform/otp"
)

const (
	// minPasswordLength is the minimum number of characters in a password.
	minPasswordLength = 8

	// maxPasswordBytes is bcrypt's input limit, counted in bytes not characters.
	maxPasswordBytes = 72

	// DefaultVerificationTTL is how long a verification code stays valid.
	DefaultVerificationTTL = 24 * time.Hour

	defaultNotifyTimeout = 15 * time.Second
)

// emailPattern requires a local part, an @ and a dotted domain, without whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository abstracts the Credential Store.
// Following Go convention, the interface is defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create hashes password and persists a new user.
	// It returns ErrEmailAlreadyExists if the email is taken, including by a concurrent insert.
	Create(ctx context.Context, email, password, firstName, lastName string, role entity.Role) (*entity.User, error)

	// FindByEmail returns the user with exactly this email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns the user with this id, or ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// VerifyCredential reports whether plaintext matches storedHash.
	VerifyCredential(storedHash, plaintext string) bool

	// MarkEmailVerified flags the user's email as confirmed.
	MarkEmailVerified(ctx context.Context, id uint) error
}

// VerificationRepository stores pending verification codes, one per user.
type VerificationRepository interface {
	Save(ctx context.Context, v *entity.EmailVerification) error
	FindByUserID(ctx context.Context, userID uint) (*entity.EmailVerification, error)
	Delete(ctx context.Context, userID uint) error
}

// CodeGenerator produces one-time verification codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	Issue(userID uint, email string, role entity.Role) (string, error)
}

// VerificationNotifier delivers a verification code to the user out of band.
type VerificationNotifier interface {
	SendVerificationCode(ctx context.Context, to, firstName, code string, ttl time.Duration) error
}

// RegisterInput carries the fields accepted at registration. Role may be empty.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// AuthResult is returned by successful register and login calls.
type AuthResult struct {
	Token string
	User  *entity.User
}

// Option customises an authUsecase.
type Option func(*authUsecase)

// WithVerificationTTL sets how long issued codes remain valid.
func WithVerificationTTL(ttl time.Duration) Option {
	return func(u *authUsecase) {
		if ttl > 0 {
			u.verificationTTL = ttl
		}
	}
}

// WithNotifyTimeout bounds each background email delivery.
func WithNotifyTimeout(d time.Duration) Option {
	return func(u *authUsecase) {
		if d > 0 {
			u.notifyTimeout = d
		}
	}
}

// WithClock replaces time.Now, used for code expiry.
func WithClock(now func() time.Time) Option {
	return func(u *authUsecase) {
		u.now = now
	}
}

// authUsecase implements the account business logic.
type authUsecase struct {
	users         UserRepository
	verifications VerificationRepository
	codes         CodeGenerator
	tokens        TokenIssuer
	notifier      VerificationNotifier

	verificationTTL time.Duration
	notifyTimeout   time.Duration
	now             func() time.Time

	// dispatch runs fire-and-forget work; tests swap it for a synchronous call.
	dispatch func(func())
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(
	users UserRepository,
	verifications VerificationRepository,
	codes CodeGenerator,
	tokens TokenIssuer,
	notifier VerificationNotifier,
	opts ...Option,
) *authUsecase {
	u := &authUsecase{
		users:           users,
		verifications:   verifications,
		codes:           codes,
		tokens:          tokens,
		notifier:        notifier,
		verificationTTL: DefaultVerificationTTL,
		notifyTimeout:   defaultNotifyTimeout,
		now:             time.Now,
		dispatch:        func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// validateRegistration checks input before any store access and resolves the role.
func validateRegistration(in RegisterInput) (entity.Role, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return "", domain.NewValidationError(domain.ErrMissingFields)
	}
	if !emailPattern.MatchString(in.Email) {
		return "", domain.NewValidationError(domain.ErrInvalidEmail)
	}
	if len([]rune(in.Password)) < minPasswordLength {
		return "", domain.NewValidationError(domain.ErrWeakPassword)
	}
	if len(in.Password) > maxPasswordBytes {
		return "", domain.NewValidationError(domain.ErrPasswordTooLong)
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return "", domain.NewValidationError(domain.ErrInvalidRole)
	}
	return role, nil
}

// Register creates an account, issues a verification code and returns a session token.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role, err := validateRegistration(in)
	if err != nil {
		return nil, err
	}

	// Early exit for the common case; the unique index still decides races.
	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user, err := u.users.Create(ctx, in.Email, in.Password, in.FirstName, in.LastName, role)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	u.startVerification(ctx, user)

	token, err := u.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// startVerification persists a fresh code and hands it to the notifier in the background.
// Failures are logged; they never fail registration.
func (u *authUsecase) startVerification(ctx context.Context, user *entity.User) {
	code, err := u.codes.Generate()
	if err != nil {
		slog.Error("failed to generate verification code", "user_id", user.ID, "error", err)
		return
	}

	now := u.now()
	v := &entity.EmailVerification{
		UserID:    user.ID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(u.verificationTTL),
	}
	if err := u.verifications.Save(ctx, v); err != nil {
		slog.Error("failed to store verification code", "user_id", user.ID, "error", err)
		return
	}

	if u.notifier == nil {
		return
	}

	to, firstName, ttl := user.Email, user.FirstName, u.verificationTTL
	detached := context.WithoutCancel(ctx)
	u.dispatch(func() {
		sendCtx, cancel := context.WithTimeout(detached, u.notifyTimeout)
		defer cancel()

		if err := u.notifier.SendVerificationCode(sendCtx, to, firstName, code, ttl); err != nil {
			slog.Warn("failed to send verification email", "user_id", user.ID, "error", err)
			return
		}
		slog.Info("verification email sent", "user_id", user.ID)
	})
}

// Login authenticates a user and returns a session token on success.
// A bcrypt comparison runs even when the user does not exist to prevent timing attacks.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// An empty hash makes the store compare against its dummy hash.
	storedHash := ""
	if user != nil {
		storedHash = user.PasswordHash
	}
	if !u.users.VerifyCredential(storedHash, password) || user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// VerifyEmail confirms the pending code for email and marks the account verified.
// Unknown emails, missing, wrong and expired codes all yield domain.ErrInvalidVerificationCode.
func (u *authUsecase) VerifyEmail(ctx context.Context, email, code string) (*entity.User, error) {
	if email == "" || code == "" {
		return nil, domain.NewValidationError(domain.ErrMissingFields)
	}
	if !otp.Valid(code) {
		return nil, domain.ErrInvalidVerificationCode
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.ErrInvalidVerificationCode
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.EmailVerified {
		return nil, domain.ErrEmailAlreadyVerified
	}

	pending, err := u.verifications.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrVerificationNotFound) {
			return nil, domain.ErrInvalidVerificationCode
		}
		return nil, fmt.Errorf("failed to load verification code: %w", err)
	}

	if pending.IsExpired(u.now()) {
		if err := u.verifications.Delete(ctx, user.ID); err != nil {
			slog.Warn("failed to delete expired verification code", "user_id", user.ID, "error", err)
		}
		return nil, domain.ErrInvalidVerificationCode
	}
	if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		return nil, domain.ErrInvalidVerificationCode
	}

	if err := u.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	if err := u.verifications.Delete(ctx, user.ID); err != nil {
		slog.Warn("failed to delete used verification code", "user_id", user.ID, "error", err)
	}

	user.EmailVerified = true
	return user, nil
}

// GetByID returns the user profile, or ErrUserNotFound.
func (u *authUsecase) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
