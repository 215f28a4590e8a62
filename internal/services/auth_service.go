package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"gasflow/internal/models"
	"gasflow/internal/repository"
	"gasflow/internal/utils"
	"gasflow/pkg/mailer"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = time.Hour
	minPasswordLen  = 6
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type authService struct {
	repos       *repository.Repositories
	tokens      *utils.TokenManager
	mail        mailer.Sender
	frontendURL string
}

func NewAuthService(repos *repository.Repositories, tokens *utils.TokenManager, mail mailer.Sender, frontendURL string) AuthService {
	return &authService{
		repos:       repos,
		tokens:      tokens,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("invalid email address")
	}
	if len(input.Password) < minPasswordLen {
		return nil, validationError("password must be at least %d characters", minPasswordLen)
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, validationError("first name is required")
	}

	if _, err := s.repos.Users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := utils.GenerateRandomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expiry := time.Now().Add(verificationTTL)

	user := &models.User{
		Email:                   email,
		PasswordHash:            hash,
		Role:                    string(models.RoleCustomer),
		FirstName:               strings.TrimSpace(input.FirstName),
		LastName:                strings.TrimSpace(input.LastName),
		Phone:                   strings.TrimSpace(input.Phone),
		EmailVerificationToken:  &token,
		EmailVerificationExpiry: &expiry,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendVerification(user, token)

	jwtToken, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: jwtToken, User: user}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return validationError("verification token is required")
	}
	user, err := s.repos.Users.GetByVerificationToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return validationError("invalid or expired verification token")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return s.repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"is_email_verified":         true,
		"email_verification_token":  nil,
		"email_verification_expiry": nil,
	})
}

func (s *authService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return wrapLookup(err, "user")
	}
	if user.IsEmailVerified {
		return validationError("email is already verified")
	}

	token, err := utils.GenerateRandomToken()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	err = s.repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"email_verification_token":  token,
		"email_verification_expiry": time.Now().Add(verificationTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	s.sendVerification(user, token)
	return nil
}

// ForgotPassword never reveals whether the email is registered.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if repository.IsNotFound(err) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := utils.GenerateRandomToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	err = s.repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_reset_token":  token,
		"password_reset_expiry": time.Now().Add(resetTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	subject, body, err := mailer.PasswordResetEmail(user.FirstName, s.frontendURL+"/reset-password?token="+token)
	if err == nil {
		err = s.mail.Send(user.Email, subject, body)
	}
	if err != nil {
		slog.Error("failed to send password reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return validationError("password must be at least %d characters", minPasswordLen)
	}
	user, err := s.repos.Users.GetByResetToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return validationError("invalid or expired reset token")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash":         hash,
		"password_reset_token":  nil,
		"password_reset_expiry": nil,
	})
}

func (s *authService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return validationError("password must be at least %d characters", minPasswordLen)
	}
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return wrapLookup(err, "user")
	}
	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return validationError("current password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": hash})
}

// sendVerification logs delivery failures; the account stays usable and the
// user can ask for another link.
func (s *authService) sendVerification(user *models.User, token string) {
	subject, body, err := mailer.VerificationEmail(user.FirstName, s.frontendURL+"/verify-email?token="+token)
	if err == nil {
		err = s.mail.Send(user.Email, subject, body)
	}
	if err != nil {
		slog.Error("failed to send verification email", "user_id", user.ID, "error", err)
	}
}
