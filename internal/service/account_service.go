package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/internal/dto"
	"github.com/playtube/user-service/internal/repository"
	"github.com/playtube/user-service/internal/utils"
	"github.com/playtube/user-service/pkg/media"
)

// accountService implements AccountService
type accountService struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	media      media.Store
	bcryptCost int
}

// NewAccountService creates a new account service
func NewAccountService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	mediaStore media.Store,
	bcryptCost int,
) AccountService {
	return &accountService{
		users:      users,
		profiles:   profiles,
		media:      mediaStore,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user. The avatar is required and must upload
// before the record is written; a cover image is uploaded only when
// supplied. Any upload failure aborts the registration.
func (s *accountService) Register(ctx context.Context, form *dto.RegisterForm, avatarPath, coverImagePath string) (*domain.User, error) {
	if utils.AnyBlank(form.Username, form.Email, form.FullName, form.Password) {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	username := utils.NormalizeIdentifier(form.Username)
	email := utils.NormalizeIdentifier(form.Email)

	if !utils.ValidateUsername(username) {
		return nil, fmt.Errorf("%w: invalid username", ErrValidation)
	}
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if !utils.ValidatePassword(form.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters with upper, lower and digit", ErrValidation)
	}
	if avatarPath == "" {
		return nil, fmt.Errorf("%w: avatar file is required", ErrValidation)
	}

	// Pre-check both identifiers so the common case fails before any
	// upload; the DB unique constraints still win the race.
	for _, identifier := range []string{username, email} {
		_, err := s.users.GetByIdentifier(ctx, identifier)
		if err == nil {
			return nil, fmt.Errorf("%w: %s", ErrConflict, identifier)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	avatarURL, err := s.media.Store(ctx, avatarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store avatar: %v", ErrInternal, err)
	}

	var coverImageURL string
	if coverImagePath != "" {
		coverImageURL, err = s.media.Store(ctx, coverImagePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to store cover image: %v", ErrInternal, err)
		}
	}

	hash, err := utils.HashPassword(form.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      form.FullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		PasswordHash:  hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, fmt.Errorf("%w: %s/%s", ErrConflict, username, email)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// CurrentUser returns the sanitized user record
func (s *accountService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.sanitizedByID(ctx, userID)
}

// UpdateAccount updates fullName and username
func (s *accountService) UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error) {
	if utils.AnyBlank(req.FullName, req.Username) {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	username := utils.NormalizeIdentifier(req.Username)
	if !utils.ValidateUsername(username) {
		return nil, fmt.Errorf("%w: invalid username", ErrValidation)
	}

	if err := s.users.UpdateAccount(ctx, userID, req.FullName, username); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUser):
			return nil, fmt.Errorf("%w: %s", ErrConflict, username)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	return s.sanitizedByID(ctx, userID)
}

// UpdateAvatar uploads a new avatar and swaps the URL
func (s *accountService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, s.users.UpdateAvatar)
}

// UpdateCoverImage uploads a new cover image and swaps the URL
func (s *accountService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, s.users.UpdateCoverImage)
}

func (s *accountService) updateImage(ctx context.Context, userID, localPath string, persist func(context.Context, string, string) error) (*domain.User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: image file is required", ErrValidation)
	}

	url, err := s.media.Store(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store image: %v", ErrInternal, err)
	}

	if err := persist(ctx, userID, url); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return s.sanitizedByID(ctx, userID)
}

// ChannelProfile loads the public channel view for a username
func (s *accountService) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	if utils.AnyBlank(username) {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	profile, err := s.profiles.ChannelProfile(ctx, utils.NormalizeIdentifier(username), viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: channel %s", ErrNotFound, username)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return profile, nil
}

// WatchHistory returns the user's watched videos in viewing order
func (s *accountService) WatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryItem, error) {
	items, err := s.profiles.WatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return items, nil
}

func (s *accountService) sanitizedByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}
