package service

import (
	"context"

	"feedbacknexus/internal/models"
	"feedbacknexus/internal/repository"
)

// UserService handles profile management and the account-wide message
// acceptance flag.
type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID         uint
	DisplayName    string
	Bio            string
	ProfilePicture string
	Twitter        string
	GitHub         string
	Website        string
}

// PublicProfile is the non-sensitive slice of a user shown to other
// authenticated users.
type PublicProfile struct {
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	Twitter        string `json:"twitter"`
	GitHub         string `json:"github"`
	Website        string `json:"website"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns another user's public profile by username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User")
	}
	return &PublicProfile{
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		Twitter:        user.Twitter,
		GitHub:         user.GitHub,
		Website:        user.Website,
	}, nil
}

// UpdateProfile applies non-empty fields to the caller's profile. Empty
// fields keep their current value.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 100

	if in.DisplayName != "" {
		if len(in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 100 characters)")
		}
		user.DisplayName = in.DisplayName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}
	if in.Twitter != "" {
		user.Twitter = in.Twitter
	}
	if in.GitHub != "" {
		user.GitHub = in.GitHub
	}
	if in.Website != "" {
		user.Website = in.Website
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAcceptingMessages flips the account-wide acceptance flag. This predates
// the per-page flag and remains for clients still using it.
func (s *UserService) SetAcceptingMessages(ctx context.Context, userID uint, accepting bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsAcceptingMessages = accepting
	return s.userRepo.Update(ctx, user)
}

// GetAcceptingMessages reports the account-wide acceptance flag.
func (s *UserService) GetAcceptingMessages(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAcceptingMessages, nil
}

// IsUsernameTaken reports whether a verified account already holds the
// username. Unverified holders do not block the name.
func (s *UserService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsVerified, nil
}
