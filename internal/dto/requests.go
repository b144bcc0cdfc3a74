package dto

// RegisterForm carries the text fields of the multipart registration
// request; the avatar and cover image arrive as file parts.
type RegisterForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required"`
	FullName string `form:"fullName" binding:"required"`
	Password string `form:"password" binding:"required,min=8"`
}

// LoginRequest accepts a username or an email; at least one must be
// set.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Identifier returns whichever of username/email was supplied,
// preferring the username.
func (r LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// RefreshRequest is the body fallback for clients that do not send the
// refresh token cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateAccountRequest updates the mutable identity fields.
type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
}
