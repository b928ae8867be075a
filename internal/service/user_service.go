package service

import (
	"context"
	"strings"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/storage"
	"github.com/Baaaki/planogram-backoffice/internal/utils"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const profilePictureFolder = "profile-pictures"

type UserInput struct {
	Email     string      `json:"email" binding:"required"`
	Password  string      `json:"password"`
	FirstName *string     `json:"firstName"`
	LastName  *string     `json:"lastName"`
	Lang      *string     `json:"lang"`
	Role      models.Role `json:"role"`
}

type ProfileUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Lang      *string `json:"lang"`
	Theme     *string `json:"theme"`
}

type UserService struct {
	users       *repository.UserRepository
	storage     storage.Storage
	mailer      Mailer
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewUserService(users *repository.UserRepository, store storage.Storage, mailer Mailer, jwtSecret string, confirmationExpiry time.Duration) *UserService {
	return &UserService{
		users:       users,
		storage:     store,
		mailer:      mailer,
		jwtSecret:   jwtSecret,
		tokenExpiry: confirmationExpiry,
	}
}

func (s *UserService) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	return s.users.FindAllWithSearchAndSort(ctx, q.options("firstName", "lastName", "email"))
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}

// FindByEmail returns (nil, nil) when no account uses email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Create inserts a user. An empty password leaves the account without one.
func (s *UserService) Create(ctx context.Context, in UserInput, actorID string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRegex.MatchString(email) {
		return nil, invalid("invalid email format")
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to check email existence", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Email already exists", zap.String("email", email))
		return nil, ErrEmailAlreadyExists
	}

	var password *string
	if in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		hashStart := time.Now()
		hashed, err := utils.HashPassword(in.Password)
		if err != nil {
			logger.Log.Error("Failed to hash password", zap.Error(err))
			return nil, err
		}
		logger.Log.Debug("Password hashed successfully", zap.Duration("hash_duration", time.Since(hashStart)))
		password = &hashed
	}

	lang := "en"
	if in.Lang != nil && *in.Lang != "" {
		lang = *in.Lang
	}

	ts := now()
	id := uuid.NewString()
	user, err := s.users.Create(ctx, repository.Fields{
		"id":          id,
		"email":       email,
		"password":    password,
		"firstName":   in.FirstName,
		"lastName":    in.LastName,
		"lang":        lang,
		"theme":       "light",
		"isConfirmed": false,
		"role":        role,
		"createdById": optional(actorID),
		"updatedById": optional(actorID),
		"createdAt":   ts,
		"updatedAt":   ts,
	})
	if err != nil {
		logger.Log.Error("Failed to create user in database", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("User created", zap.String("user_id", id), zap.String("role", string(role)))
	return user, nil
}

func (s *UserService) update(ctx context.Context, id string, fields repository.Fields) (*models.User, error) {
	fields["updatedAt"] = now()
	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	fields := repository.Fields{}
	if in.FirstName != nil {
		fields["firstName"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["lastName"] = *in.LastName
	}
	if in.Lang != nil {
		fields["lang"] = *in.Lang
	}
	if in.Theme != nil {
		fields["theme"] = *in.Theme
	}
	return s.update(ctx, id, fields)
}

// SetPassword stores a new hash for the user.
func (s *UserService) SetPassword(ctx context.Context, id, password string) (*models.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, repository.Fields{"password": hashed})
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.users.Delete(ctx, id); err != nil {
		logger.Log.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return err
	}
	logger.Log.Info("User deleted", zap.String("user_id", id))
	return nil
}

// SendConfirmationEmail mails a confirmation link unless the account is
// already confirmed. A second request within 24 hours is refused. The send
// timestamp is stored before delivery and kept even when delivery fails.
func (s *UserService) SendConfirmationEmail(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsConfirmed {
		return nil
	}
	if user.LastEmailConfirmationAt != nil && now().Sub(*user.LastEmailConfirmationAt) < cooldown {
		logger.Log.Warn("Confirmation email requested during cooldown", zap.String("user_id", id))
		return ErrConfirmationCooldown
	}

	token, err := utils.GeneratePurposeToken(user, utils.PurposeEmailConfirmation, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		return err
	}
	if _, err := s.update(ctx, id, repository.Fields{"lastEmailConfirmationAt": now()}); err != nil {
		return err
	}

	if err := s.mailer.SendConfirmationEmail(ctx, user.Email, token, deref(user.Lang)); err != nil {
		logger.Log.Error("Failed to send confirmation email", zap.String("user_id", id), zap.Error(err))
		return nil
	}
	logger.Log.Info("Confirmation email sent", zap.String("user_id", id))
	return nil
}

func (s *UserService) ConfirmEmail(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidatePurposeToken(token, s.jwtSecret, utils.PurposeEmailConfirmation)
	if err != nil {
		logger.Log.Warn("Invalid confirmation token", zap.Error(err))
		return nil, ErrInvalidToken
	}
	return s.update(ctx, claims.UserID, repository.Fields{"isConfirmed": true})
}

// UpdateProfilePicture replaces the stored picture. The old file is removed
// first; a failed removal is logged and ignored.
func (s *UserService) UpdateProfilePicture(ctx context.Context, id string, file *FileInput) (*models.User, error) {
	if err := file.validate(); err != nil {
		return nil, err
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.removePicture(ctx, user)

	stored, err := s.storage.Upload(ctx, file.Name, file.ContentType, file.Data, profilePictureFolder)
	if err != nil {
		logger.Log.Error("Failed to store profile picture", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return s.update(ctx, id, repository.Fields{"profilePicture": stored.URL})
}

func (s *UserService) DeleteProfilePicture(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.removePicture(ctx, user)
	return s.update(ctx, id, repository.Fields{"profilePicture": ""})
}

func (s *UserService) removePicture(ctx context.Context, user *models.User) {
	if user.ProfilePicture == nil || *user.ProfilePicture == "" {
		return
	}
	path, ok := s.storage.PathForURL(*user.ProfilePicture)
	if !ok {
		logger.Log.Warn("Old profile picture is not a stored file, leaving it",
			zap.String("user_id", user.ID),
			zap.String("url", *user.ProfilePicture),
		)
		return
	}
	if !s.storage.Delete(ctx, path) {
		logger.Log.Warn("Old profile picture not removed", zap.String("user_id", user.ID), zap.String("path", path))
	}
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	return nil
}
