package domain

import "time"

// User is the credential record persisted for every account. Username
// and email are stored lowercase and are unique. RefreshToken holds at
// most one currently valid refresh token; nil means the user has never
// logged in or has explicitly logged out.
type User struct {
	ID            string    `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	FullName      string    `json:"fullName" db:"full_name"`
	AvatarURL     string    `json:"avatarUrl" db:"avatar_url"`
	CoverImageURL string    `json:"coverImageUrl,omitempty" db:"cover_image_url"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	RefreshToken  *string   `json:"-" db:"refresh_token"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Sanitized returns a copy with credential fields stripped, safe to
// hand to handlers and response bodies.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = nil
	return u
}
