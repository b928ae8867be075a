package service

import (
	"context"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/utils"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Lang      *string `json:"lang"`
}

type AuthResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type AuthService struct {
	users         *UserService
	mailer        Mailer
	jwtSecret     string
	jwtExpiration time.Duration
	resetExpiry   time.Duration
	environment   string
}

func NewAuthService(users *UserService, mailer Mailer, jwtSecret string, jwtExpiration, resetExpiry time.Duration, environment string) *AuthService {
	return &AuthService{
		users:         users,
		mailer:        mailer,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		resetExpiry:   resetExpiry,
		environment:   environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

// Register creates an administrator account, mails a confirmation link and
// logs the new account in. A failed email does not undo the account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	start := time.Now()
	logger.Log.Debug("Processing registration", zap.String("email", in.Email))

	if in.Password == "" {
		return nil, invalid("password is required")
	}
	user, err := s.users.Create(ctx, UserInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Lang:      in.Lang,
		Role:      models.RoleAdmin,
	}, "")
	if err != nil {
		logger.Log.Warn("Registration failed", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	if err := s.users.SendConfirmationEmail(ctx, user.ID); err != nil {
		logger.Log.Warn("Confirmation email not sent", zap.String("user_id", user.ID), zap.Error(err))
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID),
		zap.Duration("total_duration", time.Since(start)),
	)
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to load user for login", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		logger.Log.Warn("Login failed - unknown account or no password", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	match, err := utils.VerifyPassword(password, *user.Password)
	if err != nil || !match {
		logger.Log.Warn("Login failed - invalid password", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	logger.Log.Info("User logged in", zap.String("user_id", user.ID))
	return s.issue(user)
}

// AdminLogin rejects valid credentials of non-admin accounts the same way
// as wrong ones.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	result, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if result.User.Role != models.RoleAdmin {
		logger.Log.Warn("Admin login refused for non-admin", zap.String("user_id", result.User.ID))
		return nil, ErrInvalidCredentials
	}
	return result, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

// ChangePassword requires the old password for accounts that have one and
// are not linked to Google.
func (s *AuthService) ChangePassword(ctx context.Context, userID, newPassword, oldPassword string) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.HasPassword() && user.GoogleID == nil {
		if oldPassword == "" {
			return nil, ErrOldPasswordRequired
		}
		match, err := utils.VerifyPassword(oldPassword, *user.Password)
		if err != nil || !match {
			logger.Log.Warn("Password change rejected - wrong old password", zap.String("user_id", userID))
			return nil, ErrInvalidOldPassword
		}
	}

	updated, err := s.users.SetPassword(ctx, userID, newPassword)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Password changed", zap.String("user_id", userID))
	return updated, nil
}

// ForgotPassword mails a reset link. Requests within 24 hours of the last
// one are refused.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return notFound("user", email)
	}
	if user.LastPasswordResetAt != nil && now().Sub(*user.LastPasswordResetAt) < cooldown {
		logger.Log.Warn("Password reset requested during cooldown", zap.String("user_id", user.ID))
		return ErrPasswordResetCooldown
	}

	token, err := utils.GeneratePurposeToken(user, utils.PurposePasswordReset, s.jwtSecret, s.resetExpiry)
	if err != nil {
		return err
	}
	if _, err := s.users.update(ctx, user.ID, repository.Fields{"lastPasswordResetAt": now()}); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, token, deref(user.Lang)); err != nil {
		logger.Log.Error("Failed to send password reset email", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}
	logger.Log.Info("Password reset email sent", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return invalid("token and newPassword are required")
	}
	claims, err := utils.ValidatePurposeToken(token, s.jwtSecret, utils.PurposePasswordReset)
	if err != nil {
		logger.Log.Warn("Invalid password reset token", zap.Error(err))
		return ErrInvalidToken
	}
	if _, err := s.users.SetPassword(ctx, claims.UserID, newPassword); err != nil {
		return err
	}
	logger.Log.Info("Password reset", zap.String("user_id", claims.UserID))
	return nil
}
