package service

import (
	"context"
	"log/slog"
	"strings"

	"plume/internal/assets"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// SuggestedUsersLimit caps the suggested-users response.
const SuggestedUsersLimit = 4

// UserService owns profile reads and updates.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	assets     assets.Store
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, store assets.Store) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		assets:     store,
	}
}

// Profile is a user together with the cardinalities of both follow
// projections.
type Profile struct {
	User      models.User `json:"user"`
	Followers int64       `json:"followers"`
	Following int64       `json:"following"`
}

// GetProfile resolves a username to the public profile.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	followers, following, err := s.followRepo.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:      user.Sanitized(),
		Followers: followers,
		Following: following,
	}, nil
}

// SuggestedUsers returns up to four users the caller does not follow,
// excluding the caller.
func (s *UserService) SuggestedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	users, err := s.userRepo.Suggested(ctx, userID, SuggestedUsersLimit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// UpdateProfileInput carries the optional profile fields. Empty strings
// leave the stored value untouched. A password change requires both the
// current and the new password.
type UpdateProfileInput struct {
	UserID          uint
	FullName        string
	Email           string
	Username        string
	Bio             string
	Link            string
	CurrentPassword string
	NewPassword     string
	Avatar          *assets.UploadInput
	CoverImg        *assets.UploadInput
}

// UpdateProfile applies the requested changes to the caller's profile.
// Replacement images are uploaded before the row is written (fatal on
// failure); the displaced assets are released best-effort afterwards.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if (in.CurrentPassword == "") != (in.NewPassword == "") {
		return nil, models.NewValidationError("Please provide both current password and new password")
	}
	if in.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
			return nil, models.NewValidationError("Current password is incorrect")
		}
		if err := validation.ValidatePassword(in.NewPassword); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Email != "" && in.Email != user.Email {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Bio != "" {
		if len(in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Link != "" {
		user.Link = strings.TrimSpace(in.Link)
	}

	// Track displaced assets; released only once the row update succeeds.
	var displaced []string
	if in.Avatar != nil {
		ref, err := s.uploadReplacement(ctx, *in.Avatar)
		if err != nil {
			return nil, err
		}
		if user.Avatar != "" {
			displaced = append(displaced, user.Avatar)
		}
		user.Avatar = ref
	}
	if in.CoverImg != nil {
		ref, err := s.uploadReplacement(ctx, *in.CoverImg)
		if err != nil {
			return nil, err
		}
		if user.CoverImg != "" {
			displaced = append(displaced, user.CoverImg)
		}
		user.CoverImg = ref
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	for _, ref := range displaced {
		if err := s.assets.Delete(ctx, ref); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to release displaced profile asset",
				slog.Uint64("user_id", uint64(user.ID)),
				slog.String("ref", ref),
				slog.String("error", err.Error()),
			)
		}
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *UserService) uploadReplacement(ctx context.Context, in assets.UploadInput) (string, error) {
	ref, err := s.assets.Upload(ctx, in)
	if err != nil {
		switch err {
		case assets.ErrInvalidImage, assets.ErrTooLarge:
			return "", models.NewValidationError(err.Error())
		default:
			return "", models.NewUpstreamError("Image upload failed", err)
		}
	}
	return ref, nil
}
