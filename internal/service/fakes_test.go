package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/internal/repository"
)

// fakeUserRepo is an in-memory credential store for unit tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("duplicate: %w", repository.ErrDuplicateUser)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == identifier || user.Email == identifier {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", identifier, repository.ErrNotFound)
}

func (f *fakeUserRepo) UpdateRefreshToken(ctx context.Context, userID string, token *string) error {
	return f.update(userID, func(u *domain.User) error {
		if token == nil {
			u.RefreshToken = nil
			return nil
		}
		value := *token
		u.RefreshToken = &value
		return nil
	})
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return f.update(userID, func(u *domain.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
}

func (f *fakeUserRepo) UpdateAccount(ctx context.Context, userID, fullName, username string) error {
	f.mu.Lock()
	for id, existing := range f.users {
		if id != userID && existing.Username == username {
			f.mu.Unlock()
			return fmt.Errorf("duplicate: %w", repository.ErrDuplicateUser)
		}
	}
	f.mu.Unlock()

	return f.update(userID, func(u *domain.User) error {
		u.FullName = fullName
		u.Username = username
		return nil
	})
}

func (f *fakeUserRepo) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	return f.update(userID, func(u *domain.User) error {
		u.AvatarURL = avatarURL
		return nil
	})
}

func (f *fakeUserRepo) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) error {
	return f.update(userID, func(u *domain.User) error {
		u.CoverImageURL = coverImageURL
		return nil
	})
}

func (f *fakeUserRepo) update(userID string, apply func(*domain.User) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, repository.ErrNotFound)
	}
	if err := apply(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()
	return nil
}

// stored returns the raw record, credential fields included.
func (f *fakeUserRepo) stored(userID string) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return nil
	}
	clone := *user
	return &clone
}

// fakeProfileRepo serves canned channel/history reads.
type fakeProfileRepo struct {
	profiles map[string]*domain.ChannelProfile
	history  map[string][]domain.WatchHistoryItem
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[string]*domain.ChannelProfile),
		history:  make(map[string][]domain.WatchHistoryItem),
	}
}

func (f *fakeProfileRepo) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	profile, ok := f.profiles[username]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", username, repository.ErrNotFound)
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileRepo) WatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryItem, error) {
	return f.history[userID], nil
}

// fakeMediaStore fabricates URLs without any network.
type fakeMediaStore struct {
	mu     sync.Mutex
	failed bool
	stored []string
}

func (f *fakeMediaStore) failNext() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = true
}

func (f *fakeMediaStore) Store(ctx context.Context, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failed {
		f.failed = false
		return "", errors.New("upload failed")
	}

	f.stored = append(f.stored, localPath)
	return "https://cdn.example.com/images/" + filepath.Base(localPath), nil
}
