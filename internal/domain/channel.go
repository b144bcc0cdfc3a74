package domain

import "time"

// ChannelProfile is the public view of a user's channel, including
// subscription counts relative to the viewing user.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatarUrl"`
	CoverImageURL     string `json:"coverImageUrl,omitempty"`
	SubscriberCount   int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// VideoOwner is the subset of the owning user shown next to a video.
type VideoOwner struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

// WatchHistoryItem is one watched video in viewing order, joined with
// its owner.
type WatchHistoryItem struct {
	VideoID         string     `json:"videoId"`
	Title           string     `json:"title"`
	ThumbnailURL    string     `json:"thumbnailUrl"`
	DurationSeconds int        `json:"durationSeconds"`
	Owner           VideoOwner `json:"owner"`
	WatchedAt       time.Time  `json:"watchedAt"`
}
