package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"github.com/gin-gonic/gin"
)

const CurrentUserCtx = "current_user"

type filterService interface {
	ExtractUsername(tokenStr string) (string, error)
	IsTokenValid(tokenStr string, user *models.User) bool
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthFilterProvider is the per-request authentication gate. It runs
// before every handler, establishes the caller identity when a valid
// access token cookie is present, and otherwise lets the request
// continue unauthenticated so RequireAuth can decide downstream.
type AuthFilterProvider struct {
	log        logger.Log
	service    filterService
	cookieName string
}

func NewAuthFilterProvider(log logger.Log, s filterService, accessCookieName string) *AuthFilterProvider {
	return &AuthFilterProvider{
		log:        log,
		service:    s,
		cookieName: accessCookieName,
	}
}

func (p *AuthFilterProvider) Filter(c *gin.Context) {
	token, err := c.Cookie(p.cookieName)
	if err != nil || token == "" || strings.Contains(c.Request.URL.Path, "/auth") {
		c.Next()
		return
	}

	username, err := p.service.ExtractUsername(token)
	if err != nil {
		// Signature and expiry failures short-circuit with the uniform
		// error body, they never fall through to the handlers.
		AbortWithError(c, err)
		return
	}

	user, err := p.service.UserByUsername(c.Request.Context(), username)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if p.service.IsTokenValid(token, user) {
		c.Set(CurrentUserCtx, user)
	}
	c.Next()
}

// RequireAuth guards protected routes: without an established identity
// the request is rejected with the uniform 401 body.
func RequireAuth(c *gin.Context) {
	if _, exists := c.Get(CurrentUserCtx); !exists {
		AbortWithError(c, app_errors.ErrUnauthenticated)
		return
	}
	c.Next()
}

// CurrentUser returns the identity established by the auth filter.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(CurrentUserCtx)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

func LoggingMiddleware(log logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery
		if rawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, rawQuery)
		}
		status := c.Writer.Status()

		log.Info(fmt.Sprintf("%s %s", method, path),
			"status", status,
			"latency", latency,
			"client_ip", clientIP,
		)

		for _, ginErr := range c.Errors {
			log.ErrorErr("HTTP request error", ginErr.Err,
				"status", status,
				"method", method,
				"path", path,
			)
		}
	}
}
