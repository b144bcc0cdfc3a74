package repository

import (
	"context"

	"github.com/playtube/user-service/internal/domain"
)

// UserRepository is the credential store: it owns the user record
// including the password hash and the single stored refresh token.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByIdentifier resolves a (normalized) username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	// UpdateRefreshToken overwrites the stored refresh token; nil
	// clears it.
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateAccount(ctx context.Context, userID, fullName, username string) error
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
	UpdateCoverImage(ctx context.Context, userID, coverImageURL string) error
}

// ProfileRepository serves the read models built over users,
// subscriptions and videos.
type ProfileRepository interface {
	// ChannelProfile loads the public channel view for username, with
	// subscription counts and whether viewerID subscribes to it.
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	// WatchHistory returns the user's watched videos in viewing order,
	// each joined with its owner.
	WatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryItem, error)
}
