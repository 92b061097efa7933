package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/bookvault/internal/auth"
	"github.com/utafrali/bookvault/internal/domain"
	"github.com/utafrali/bookvault/internal/event"
	"github.com/utafrali/bookvault/internal/mailer"
	"github.com/utafrali/bookvault/internal/repository"
	apperrors "github.com/utafrali/bookvault/pkg/errors"
	"github.com/utafrali/bookvault/pkg/pagination"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// UserService implements the business logic for user and auth operations.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
	limiter  LoginLimiter
	mailer   mailer.Mailer
	producer *event.Producer
	logger   *slog.Logger

	resetTTL time.Duration
	resetURL string
}

// NewUserService creates a new user service. resetTTL bounds the lifetime of
// password-reset tokens and resetURL is the external base URL included in
// reset emails.
func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenIssuer,
	limiter LoginLimiter,
	m mailer.Mailer,
	producer *event.Producer,
	logger *slog.Logger,
	resetTTL time.Duration,
	resetURL string,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		limiter:  limiter,
		mailer:   m,
		producer: producer,
		logger:   logger,
		resetTTL: resetTTL,
		resetURL: resetURL,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Role            string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput holds the parameters for completing a password reset.
type ResetPasswordInput struct {
	Token           string
	Password        string
	PasswordConfirm string
}

// UpdatePasswordInput holds the parameters for an authenticated password change.
type UpdatePasswordInput struct {
	CurrentPassword string
	Password        string
	PasswordConfirm string
}

// --- Auth Operations ---

// Register creates a new user account with a hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.PasswordConfirm {
		return nil, apperrors.InvalidInput("passwords do not match")
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.IsValidRole(role) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid role %q", role))
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		Role:         role,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login authenticates a user with email and password, returning a bearer token.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	if input.Email == "" || input.Password == "" {
		return nil, "", apperrors.InvalidInput("please provide email and password")
	}

	blocked, err := s.limiter.TooManyAttempts(ctx, input.Email)
	if err != nil {
		// Limiter outage must not lock everyone out.
		s.logger.ErrorContext(ctx, "login limiter unavailable",
			slog.String("error", err.Error()),
		)
	}
	if blocked {
		return nil, "", apperrors.TooManyRequests("too many login attempts, please try again later")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		s.recordLoginFailure(ctx, input.Email)
		return nil, "", apperrors.Unauthorized("incorrect email or password")
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		s.recordLoginFailure(ctx, input.Email)
		return nil, "", apperrors.Unauthorized("incorrect email or password")
	}

	if err := s.limiter.Reset(ctx, input.Email); err != nil {
		s.logger.ErrorContext(ctx, "failed to reset login attempts",
			slog.String("error", err.Error()),
		)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// ForgotPassword creates a one-time reset token for the account and emails it
// out. If delivery fails the token is cleared again so the stored state never
// references an email nobody received.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperrors.NotFoundMsg("there is no user with that email address")
	}

	plain, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(s.resetTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg := mailer.Email{
		To:      user.Email,
		Subject: "Your password reset token (valid for 10 minutes)",
		Body: fmt.Sprintf(
			"Forgot your password? Submit a request with your new password to:\n\n%s/%s\n\nIf you didn't forget your password, please ignore this email.",
			s.resetURL, plain,
		),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		// Roll back so the outstanding token matches what was actually delivered.
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to clear reset token after delivery failure",
				slog.String("user_id", user.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		s.logger.ErrorContext(ctx, "failed to send password reset email",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return apperrors.DeliveryFailed("there was an error sending the email, try again later")
	}

	s.logger.InfoContext(ctx, "password reset token sent",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// ResetPassword consumes a reset token, sets the new password, and returns a
// fresh bearer token. An unknown and an expired token are indistinguishable to
// the caller.
func (s *UserService) ResetPassword(ctx context.Context, input ResetPasswordInput) (*domain.User, string, error) {
	if input.Token == "" {
		return nil, "", apperrors.InvalidInput("reset token is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, "", err
	}
	if input.Password != input.PasswordConfirm {
		return nil, "", apperrors.InvalidInput("passwords do not match")
	}

	tokenHash := auth.HashResetToken(input.Token)
	user, err := s.userRepo.GetByResetTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, "", apperrors.Unauthorized("token is invalid or has expired")
	}

	now := time.Now().UTC()
	if user.PasswordResetExpiresAt == nil || now.After(*user.PasswordResetExpiresAt) {
		return nil, "", apperrors.Unauthorized("token is invalid or has expired")
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	// Stamp the change one second in the past so the token issued below,
	// which carries second-precision iat, is not rejected as stale.
	changedAt := now.Add(-time.Second)
	user.PasswordHash = hashedPassword
	user.PasswordChangedAt = &changedAt
	user.PasswordResetTokenHash = nil
	user.PasswordResetExpiresAt = nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("update user password: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.producer.PublishUserPasswordChanged(ctx, user, event.ReasonReset); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.password_changed event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// UpdatePassword changes the password of an authenticated user after checking
// the current one, and returns a fresh bearer token. Users can only change
// their own password.
func (s *UserService) UpdatePassword(ctx context.Context, subjectID, targetID string, input UpdatePasswordInput) (*domain.User, string, error) {
	if targetID != subjectID {
		return nil, "", apperrors.Forbidden("you can only change your own password")
	}
	if input.CurrentPassword == "" {
		return nil, "", apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, "", err
	}
	if input.Password != input.PasswordConfirm {
		return nil, "", apperrors.InvalidInput("passwords do not match")
	}

	user, err := s.userRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, "", fmt.Errorf("get user for password change: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.CurrentPassword) {
		return nil, "", apperrors.Unauthorized("your current password is wrong")
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	changedAt := time.Now().UTC().Add(-time.Second)
	user.PasswordHash = hashedPassword
	user.PasswordChangedAt = &changedAt

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("update user password: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.producer.PublishUserPasswordChanged(ctx, user, event.ReasonUpdate); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.password_changed event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// Authenticate resolves a bearer token to its live user. It rejects a token
// whose signature, expiry, subject, or issuance time does not check out, and
// a token issued before the user's last password change.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("the user belonging to this token no longer exists")
	}

	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, apperrors.Unauthorized("password was changed recently, please log in again")
	}

	return user, nil
}

// --- User Operations ---

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns a page of users along with the total count.
func (s *UserService) ListUsers(ctx context.Context, params pagination.Params) ([]domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// --- Helpers ---

func (s *UserService) recordLoginFailure(ctx context.Context, email string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to record login failure",
			slog.String("error", err.Error()),
		)
	}
}

// validatePassword checks that the password meets the minimum length.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}
