package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/playtube/user-service/internal/domain"
)

// Cookie names match the JSON body fields so clients can use either.
const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies attaches both tokens as HTTP-only secure cookies.
func setAuthCookies(c *gin.Context, pair *domain.TokenPair, accessMaxAge, refreshMaxAge int) {
	c.SetCookie(accessTokenCookie, pair.AccessToken, accessMaxAge, "/", "", true, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, refreshMaxAge, "/", "", true, true)
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", true, true)
}
