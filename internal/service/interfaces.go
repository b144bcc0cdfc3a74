package service

import (
	"context"

	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/internal/dto"
)

// SessionService owns the authentication lifecycle: credential
// verification, dual-token issuance, rotation and the authorization
// check used by the middleware.
type SessionService interface {
	// Login verifies identifier (username or email) + password and, on
	// success, issues a token pair and persists the refresh token. The
	// returned user has credential fields stripped.
	Login(ctx context.Context, identifier, password string) (*domain.User, *domain.TokenPair, error)
	// Logout clears the stored refresh token for the user.
	Logout(ctx context.Context, userID string) error
	// Refresh rotates the token pair. The incoming token must match
	// the stored one exactly; stale tokens are rejected even when
	// their signature is still valid.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// ChangePassword verifies the old password and re-hashes the new
	// one. Stored refresh tokens are left untouched.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	// Authorize resolves an access token to the user it was issued to,
	// with credential fields stripped.
	Authorize(ctx context.Context, accessToken string) (*domain.User, error)
}

// AccountService owns registration and the profile operations.
type AccountService interface {
	// Register validates the form, uploads the avatar (required) and
	// cover image (optional) and creates the user record.
	Register(ctx context.Context, form *dto.RegisterForm, avatarPath, coverImagePath string) (*domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryItem, error)
}
