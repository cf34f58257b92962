package service

import (
	"context"
	"strings"

	"auroric/internal/models"
	"auroric/internal/repository"
	"auroric/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UpdateProfileRequest carries a partial profile update. Nil fields are
// left untouched.
type UpdateProfileRequest struct {
	DisplayName *string                `json:"display_name"`
	Bio         *string                `json:"bio"`
	Avatar      *string                `json:"avatar"`
	Website     *string                `json:"website"`
	Settings    *UpdateSettingsRequest `json:"settings"`
}

// UpdateSettingsRequest carries a partial settings update, merged
// key-by-key onto the stored settings.
type UpdateSettingsRequest struct {
	PrivateProfile        *bool   `json:"private_profile"`
	ShowActivity          *bool   `json:"show_activity"`
	AllowMessages         *bool   `json:"allow_messages"`
	AllowNotifications    *bool   `json:"allow_notifications"`
	EmailOnNewFollower    *bool   `json:"email_on_new_follower"`
	EmailOnPinInteraction *bool   `json:"email_on_pin_interaction"`
	Theme                 *string `json:"theme"`
}

// SignupRequest carries the fields required to create an account.
type SignupRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// UserService implements account and social-graph operations.
type UserService struct {
	users    repository.UserRepository
	follows  repository.FollowRepository
	notifier *Notifier
}

// NewUserService returns a UserService backed by the given repositories.
func NewUserService(users repository.UserRepository, follows repository.FollowRepository, notifier *Notifier) *UserService {
	return &UserService{users: users, follows: follows, notifier: notifier}
}

// Signup validates the request, hashes the password and creates the account.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.users.GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}
	if existing, err := s.users.GetByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    string(hash),
		Settings:    models.UserSettings{ShowActivity: true, AllowMessages: true, AllowNotifications: true, EmailOnNewFollower: true, EmailOnPinInteraction: true, Theme: models.ThemeDark},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies email/password credentials. It returns an
// unauthorized error for both unknown accounts and bad passwords so the
// response does not reveal which one failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// Get returns a single user profile with follower counts.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByUsername returns a profile looked up by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
// Settings merge key-by-key so omitted keys keep their stored values.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if err := validation.ValidateDisplayName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.DisplayName = name
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Website != nil {
		user.Website = *req.Website
	}
	if req.Settings != nil {
		if err := mergeSettings(&user.Settings, req.Settings); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func mergeSettings(settings *models.UserSettings, req *UpdateSettingsRequest) error {
	if req.PrivateProfile != nil {
		settings.PrivateProfile = *req.PrivateProfile
	}
	if req.ShowActivity != nil {
		settings.ShowActivity = *req.ShowActivity
	}
	if req.AllowMessages != nil {
		settings.AllowMessages = *req.AllowMessages
	}
	if req.AllowNotifications != nil {
		settings.AllowNotifications = *req.AllowNotifications
	}
	if req.EmailOnNewFollower != nil {
		settings.EmailOnNewFollower = *req.EmailOnNewFollower
	}
	if req.EmailOnPinInteraction != nil {
		settings.EmailOnPinInteraction = *req.EmailOnPinInteraction
	}
	if req.Theme != nil {
		if *req.Theme != models.ThemeDark && *req.Theme != models.ThemeLight {
			return models.NewValidationError("theme must be dark or light")
		}
		settings.Theme = *req.Theme
	}
	return nil
}

// ToggleFollow flips the follow edge between the caller and another
// user. It returns true when the caller now follows the target. A fresh
// follow emits a notification; re-follows after an unfollow do too, but
// an unfollow never does.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == followeeID {
		return false, models.NewValidationError("cannot follow yourself")
	}

	// Verify the target exists before touching the edge.
	if _, err := s.users.GetByID(ctx, followeeID); err != nil {
		return false, err
	}

	following, err := s.follows.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}

	if following {
		if err := s.follows.Unfollow(ctx, followerID, followeeID); err != nil {
			return false, err
		}
		return false, nil
	}

	created, err := s.follows.Follow(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if created {
		s.notifier.Emit(ctx, models.NotificationTypeFollow, followerID, followeeID, nil, nil)
	}
	return true, nil
}

// IsFollowing reports whether follower currently follows followee.
func (s *UserService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, followeeID)
}

// Followers lists the users following the given user, most recent first.
func (s *UserService) Followers(ctx context.Context, userID uint, page, limit int) (models.Page[models.User], error) {
	return s.follows.Followers(ctx, userID, page, limit)
}

// Following lists the users the given user follows, most recent first.
func (s *UserService) Following(ctx context.Context, userID uint, page, limit int) (models.Page[models.User], error) {
	return s.follows.Following(ctx, userID, page, limit)
}

// List returns a page of users, newest first.
func (s *UserService) List(ctx context.Context, page, limit int) (models.Page[models.User], error) {
	return s.users.List(ctx, page, limit)
}

// Search finds users by username or display name substring.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	return s.users.Search(ctx, query, limit)
}
