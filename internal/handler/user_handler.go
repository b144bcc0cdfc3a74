package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/internal/dto"
	"github.com/playtube/user-service/internal/service"
)

// UserHandler serves the account and session endpoints.
type UserHandler struct {
	sessions      service.SessionService
	accounts      service.AccountService
	accessMaxAge  int
	refreshMaxAge int
}

// NewUserHandler creates a new user handler. The max-age values (in
// seconds) bound the auth cookies to the token lifetimes.
func NewUserHandler(sessions service.SessionService, accounts service.AccountService, accessMaxAge, refreshMaxAge int) *UserHandler {
	return &UserHandler{
		sessions:      sessions,
		accounts:      accounts,
		accessMaxAge:  accessMaxAge,
		refreshMaxAge: refreshMaxAge,
	}
}

// Register handles multipart registration: text fields plus a required
// avatar part and an optional coverImage part.
func (h *UserHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindingError(c, err)
		return
	}

	avatarPath, avatarCleanup, err := saveUploadedFile(c, "avatar")
	defer avatarCleanup()
	if err != nil {
		respondError(c, err)
		return
	}

	coverPath, coverCleanup, err := saveUploadedFile(c, "coverImage")
	defer coverCleanup()
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), &form, avatarPath, coverPath)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login verifies a username/email + password pair and sets the token
// cookies.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, pair, err := h.sessions.Login(c.Request.Context(), req.Identifier(), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAuthCookies(c, pair, h.accessMaxAge, h.refreshMaxAge)
	respond(c, http.StatusOK, dto.LoginResponse{
		User:         *user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout clears the stored refresh token and expires the cookies.
func (h *UserHandler) Logout(c *gin.Context) {
	user, ok := AuthenticatedUser(c)
	if !ok {
		abortUnauthorized(c, "access token is required")
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

// Refresh rotates the token pair. The incoming refresh token comes
// from the cookie or the request body.
func (h *UserHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(refreshTokenCookie)
	if token == "" {
		var req dto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	setAuthCookies(c, pair, h.accessMaxAge, h.refreshMaxAge)
	respond(c, http.StatusOK, dto.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

// ChangePassword rotates the account password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := AuthenticatedUser(c)
	if !ok {
		abortUnauthorized(c, "access token is required")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.sessions.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

// CurrentUser returns a fresh read of the authenticated user.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, ok := AuthenticatedUser(c)
	if !ok {
		abortUnauthorized(c, "access token is required")
		return
	}

	current, err := h.accounts.CurrentUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, current, "Current user fetched")
}

// UpdateAccount updates fullName and username.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	user, ok := AuthenticatedUser(c)
	if !ok {
		abortUnauthorized(c, "access token is required")
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	updated, err := h.accounts.UpdateAccount(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, updated, "Account details updated successfully")
}

// UpdateAvatar replaces the avatar image.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.accounts.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage replaces the cover image.
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.accounts.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID, localPath string) (*domain.User, error), message string) {
	user, ok := AuthenticatedUser(c)
	if !ok {
		abortUnauthorized(c, "access token is required")
		return
	}

	path, cleanup, err := saveUploadedFile(c, field)
	defer cleanup()
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := update(c.Request.Context(), user.ID, path)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, updated, message)
}

// ChannelProfile returns the public channel view for a username.
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	user, ok := AuthenticatedUser(c)
	if !ok {
		abortUnauthorized(c, "access token is required")
		return
	}

	profile, err := h.accounts.ChannelProfile(c.Request.Context(), c.Param("username"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "User channel fetched successfully")
}

// WatchHistory returns the authenticated user's watch history.
func (h *UserHandler) WatchHistory(c *gin.Context) {
	user, ok := AuthenticatedUser(c)
	if !ok {
		abortUnauthorized(c, "access token is required")
		return
	}

	history, err := h.accounts.WatchHistory(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, history, "Watch history fetched successfully")
}
