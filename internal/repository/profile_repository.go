package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/pkg/database"
)

// profileRepository implements ProfileRepository on PostgreSQL
type profileRepository struct {
	db *database.Postgres
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.Postgres) ProfileRepository {
	return &profileRepository{db: db}
}

// ChannelProfile loads the channel view for a username in one round
// trip: subscription counts via subqueries, isSubscribed relative to
// the viewer.
func (r *profileRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
			EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
		FROM users u
		WHERE u.username = $1
	`

	profile := &domain.ChannelProfile{}
	var cover sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, username, viewerID).Scan(
		&profile.ID,
		&profile.Username,
		&profile.FullName,
		&profile.Email,
		&profile.AvatarURL,
		&cover,
		&profile.SubscriberCount,
		&profile.SubscribedToCount,
		&profile.IsSubscribed,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("channel %s not found: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	if cover.Valid {
		profile.CoverImageURL = cover.String
	}

	return profile, nil
}

// WatchHistory returns watched videos joined with their owners,
// ordered by insertion (viewing) order.
func (r *profileRepository) WatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryItem, error) {
	query := `
		SELECT v.id, v.title, v.thumbnail_url, v.duration_seconds, h.watched_at,
			o.id, o.username, o.full_name, o.avatar_url
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.position
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()

	var items []domain.WatchHistoryItem
	for rows.Next() {
		var item domain.WatchHistoryItem
		err := rows.Scan(
			&item.VideoID,
			&item.Title,
			&item.ThumbnailURL,
			&item.DurationSeconds,
			&item.WatchedAt,
			&item.Owner.ID,
			&item.Owner.Username,
			&item.Owner.FullName,
			&item.Owner.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watch history: %w", err)
	}

	return items, nil
}
