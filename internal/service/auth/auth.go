package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

type tokenRepo interface {
	Create(ctx context.Context, token models.RefreshToken) (*models.RefreshToken, error)
	ByToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error)
	DeleteByToken(ctx context.Context, tokenValue string) error
}

// AuthService owns the whole session lifecycle: credential
// verification, access token issuance, refresh token persistence and
// the login/refresh/logout flows.
type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	userRepo   UserRepo
	tokenRepo  tokenRepo
	refreshTTL time.Duration
}

func NewAuthService(l logger.Log, manager *JWTManager, uRepo UserRepo, tRepo tokenRepo, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		userRepo:   uRepo,
		tokenRepo:  tRepo,
		refreshTTL: refreshTTL,
	}
}

// Login verifies the credentials and, on success, issues a fresh
// access/refresh token pair. A credential mismatch and an unknown
// username both surface as BadCredential; anything else during
// verification becomes LoginError so internal detail never reaches the
// caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	candidate, err := s.userRepo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, app_errors.ErrBadCredential
		}
		s.log.ErrorErr("login: user lookup failed", err, "username", username)
		return nil, app_errors.ErrLogin
	}

	if !checkPasswordHash(password, candidate.Password) {
		return nil, app_errors.ErrBadCredential
	}

	user, err := s.userRepo.UserByUsername(ctx, candidate.Username)
	if err != nil {
		s.log.ErrorErr("login: user re-fetch failed", err, "username", username)
		return nil, app_errors.ErrLogin
	}

	accessToken, err := s.jwtManager.Generate(user)
	if err != nil {
		s.log.ErrorErr("login: access token generation failed", err, "username", username)
		return nil, app_errors.ErrLogin
	}

	refreshToken, err := s.createRefreshToken(ctx, user)
	if err != nil {
		s.log.ErrorErr("login: refresh token creation failed", err, "username", username)
		return nil, app_errors.ErrLogin
	}

	return &models.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// Register creates the account. No tokens are issued, a separate login
// is required afterwards.
func (s *AuthService) Register(ctx context.Context, user models.User) (*models.User, error) {
	hashed, err := hashPassword(user.Password)
	if err != nil {
		return nil, app_errors.ErrCreateUser
	}
	user.Password = hashed

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserExists) {
			return nil, err
		}
		s.log.ErrorErr("register: user creation failed", err, "username", user.Username)
		return nil, app_errors.ErrCreateUser
	}
	return created, nil
}

// Refresh exchanges a stored refresh token for a new access token. The
// refresh token itself is not rotated: the same value stays usable
// until its natural expiry.
func (s *AuthService) Refresh(ctx context.Context, tokenValue string) (*models.AuthResult, error) {
	refreshToken, err := s.tokenRepo.ByToken(ctx, tokenValue)
	if err != nil {
		return nil, err
	}

	if err := s.verifyExpiration(ctx, refreshToken); err != nil {
		return nil, err
	}

	user, err := s.userRepo.UserByUsername(ctx, refreshToken.Username)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtManager.Generate(user)
	if err != nil {
		s.log.ErrorErr("refresh: access token generation failed", err, "username", user.Username)
		return nil, app_errors.ErrLogin
	}

	return &models.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: tokenValue,
	}, nil
}

// Logout deletes the refresh token record. An empty token value is not
// an error: logout without a session is a no-op.
func (s *AuthService) Logout(ctx context.Context, tokenValue string) error {
	if tokenValue == "" {
		return nil
	}
	return s.tokenRepo.DeleteByToken(ctx, tokenValue)
}

func (s *AuthService) ExtractUsername(tokenStr string) (string, error) {
	return s.jwtManager.ExtractUsername(tokenStr)
}

func (s *AuthService) IsTokenValid(tokenStr string, user *models.User) bool {
	return s.jwtManager.IsTokenValid(tokenStr, user)
}

func (s *AuthService) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.UserByUsername(ctx, username)
}

// createRefreshToken persists a new opaque token for the user. The
// value is random, collisions are prevented by entropy plus the unique
// constraint on the token column.
func (s *AuthService) createRefreshToken(ctx context.Context, user *models.User) (*models.RefreshToken, error) {
	token := models.RefreshToken{
		UserID:     user.ID,
		Username:   user.Username,
		Token:      base64.StdEncoding.EncodeToString([]byte(uuid.NewString())),
		ExpiryDate: time.Now().Add(s.refreshTTL),
		Revoked:    false,
	}
	return s.tokenRepo.Create(ctx, token)
}

// verifyExpiration rejects missing and expired tokens. An expired
// record is deleted before the error is raised, expired tokens are
// purged lazily on use rather than by a background sweep.
func (s *AuthService) verifyExpiration(ctx context.Context, token *models.RefreshToken) error {
	if token == nil {
		return app_errors.ErrNullToken
	}
	if token.ExpiryDate.Before(time.Now()) {
		if err := s.tokenRepo.DeleteByToken(ctx, token.Token); err != nil {
			s.log.ErrorErr("failed to purge expired refresh token", err, "username", token.Username)
		}
		return app_errors.ErrRefreshTokenExpired
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
