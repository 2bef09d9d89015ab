package controllers

import (
	"context"
	"net/http"
	"time"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.AuthResult, error)
	Register(ctx context.Context, user models.User) (*models.User, error)
	Refresh(ctx context.Context, tokenValue string) (*models.AuthResult, error)
	Logout(ctx context.Context, tokenValue string) error
}

// CookieConfig carries the names and lifetimes of the two auth
// cookies.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

type AuthHandler struct {
	AuthService AuthService
	cookies     CookieConfig
	log         logger.Log
}

func NewAuthHandler(l logger.Log, auth AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		AuthService: auth,
		cookies:     cookies,
		log:         l,
	}
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, app_errors.New("ValidationError", "Invalid request body.", http.StatusBadRequest))
		return
	}

	result, err := h.AuthService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	h.setAuthCookie(c, h.cookies.AccessName, result.AccessToken, h.cookies.AccessTTL)
	h.setAuthCookie(c, h.cookies.RefreshName, result.RefreshToken, h.cookies.RefreshTTL)
	c.JSON(http.StatusOK, toUserView(result.User))
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, app_errors.New("ValidationError", "Invalid request body.", http.StatusBadRequest))
		return
	}

	created, err := h.AuthService.Register(c.Request.Context(), models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserView(created))
}

// Refresh reads the refresh token from its cookie and answers with a
// fresh access token cookie. The refresh cookie is left untouched: the
// token is reusable until it expires.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(h.cookies.RefreshName)

	result, err := h.AuthService.Refresh(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	h.setAuthCookie(c, h.cookies.AccessName, result.AccessToken, h.cookies.AccessTTL)
	c.Status(http.StatusOK)
}

// Logout deletes the refresh token if one was presented and clears
// both cookies. A missing cookie is not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.cookies.RefreshName)

	if err := h.AuthService.Logout(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	// The access cookie is cleared without a Max-Age attribute, the
	// refresh cookie with Max-Age=0.
	c.SetCookie(h.cookies.AccessName, "", 0, "/", "", false, false)
	c.SetCookie(h.cookies.RefreshName, "", -1, "/", "", false, false)
	c.Status(http.StatusOK)
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", true, true)
}
