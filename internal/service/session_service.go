package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/internal/repository"
	"github.com/playtube/user-service/internal/utils"
)

// sessionService implements SessionService
type sessionService struct {
	users      repository.UserRepository
	tokens     *utils.TokenManager
	bcryptCost int
}

// NewSessionService creates a new session service
func NewSessionService(users repository.UserRepository, tokens *utils.TokenManager, bcryptCost int) SessionService {
	return &sessionService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Login authenticates by username or email. Token issuance and
// refresh-token persistence succeed or fail as one unit: any failure
// after credential verification aborts the whole login.
func (s *sessionService) Login(ctx context.Context, identifier, password string) (*domain.User, *domain.TokenPair, error) {
	if utils.AnyBlank(identifier, password) {
		return nil, nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}

	user, err := s.users.GetByIdentifier(ctx, utils.NormalizeIdentifier(identifier))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: no account for %s", ErrNotFound, identifier)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: password mismatch", ErrUnauthorized)
	}

	pair, err := s.rotate(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, pair, nil
}

// Logout clears the stored refresh token, invalidating any
// outstanding refresh token for the user.
func (s *sessionService) Logout(ctx context.Context, userID string) error {
	err := s.users.UpdateRefreshToken(ctx, userID, nil)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

// Refresh exchanges a valid, current refresh token for a new pair.
// A token that verifies cryptographically but does not match the
// stored one has been rotated away and is rejected.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", ErrUnauthorized)
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, fmt.Errorf("%w: refresh token is expired or already used", ErrUnauthorized)
	}

	return s.rotate(ctx, user)
}

// ChangePassword re-hashes the password after verifying the old one.
// Outstanding refresh tokens deliberately stay valid.
func (s *sessionService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return fmt.Errorf("%w: old password mismatch", ErrInvalidCredential)
	}

	if !utils.ValidatePassword(newPassword) {
		return fmt.Errorf("%w: new password too weak", ErrValidation)
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return nil
}

// Authorize resolves an access token to its user for the request
// guard.
func (s *sessionService) Authorize(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: access token is required", ErrUnauthorized)
	}

	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid access token", ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid access token", ErrUnauthorized)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// rotate issues a fresh pair and overwrites the stored refresh token.
func (s *sessionService) rotate(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
