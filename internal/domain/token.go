package domain

import "time"

// AccessClaims are the identity claims embedded in an access token.
type AccessClaims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Exp      int64  `json:"exp"`
	Iat      int64  `json:"iat"`
}

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IsExpired checks the claims against the wall clock.
func (c AccessClaims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}
