package auth

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	byUsername map[string]*models.User
	nextID     int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byUsername: make(map[string]*models.User)}
}

func (r *stubUserRepo) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	if _, ok := r.byUsername[user.Username]; ok {
		return nil, app_errors.ErrUserExists
	}
	r.nextID++
	user.ID = r.nextID
	r.byUsername[user.Username] = &user
	return &user, nil
}

func (r *stubUserRepo) UserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := r.byUsername[username]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (r *stubUserRepo) UserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range r.byUsername {
		if user.ID == id {
			u := *user
			return &u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

type stubTokenRepo struct {
	byToken map[string]models.RefreshToken
	nextID  int64
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{byToken: make(map[string]models.RefreshToken)}
}

func (r *stubTokenRepo) Create(_ context.Context, token models.RefreshToken) (*models.RefreshToken, error) {
	r.nextID++
	token.ID = r.nextID
	r.byToken[token.Token] = token
	return &token, nil
}

func (r *stubTokenRepo) ByToken(_ context.Context, tokenValue string) (*models.RefreshToken, error) {
	token, ok := r.byToken[tokenValue]
	if !ok {
		return nil, app_errors.ErrRefreshTokenNotFound
	}
	return &token, nil
}

func (r *stubTokenRepo) DeleteByToken(_ context.Context, tokenValue string) error {
	if _, ok := r.byToken[tokenValue]; !ok {
		return app_errors.ErrRefreshTokenNotFound
	}
	delete(r.byToken, tokenValue)
	return nil
}

func newTestService(t *testing.T) (*AuthService, *stubUserRepo, *stubTokenRepo) {
	t.Helper()
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	manager := NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(logger.New("local"), manager, users, tokens, 24*time.Hour)
	return svc, users, tokens
}

func seedUser(t *testing.T, users *stubUserRepo, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := users.CreateUser(context.Background(), models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		svc, users, tokens := newTestService(t)
		seedUser(t, users, "alice", "correct")

		result, err := svc.Login(context.Background(), "alice", "correct")
		require.NoError(t, err)
		assert.Equal(t, "alice", result.User.Username)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.NotEqual(t, result.AccessToken, result.RefreshToken)

		stored, err := tokens.ByToken(context.Background(), result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, stored.UserID)
		assert.False(t, stored.Revoked)
		assert.True(t, stored.ExpiryDate.After(time.Now()))
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, tokens := newTestService(t)
		seedUser(t, users, "alice", "correct")

		_, err := svc.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, app_errors.ErrBadCredential)
		assert.Empty(t, tokens.byToken)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Login(context.Background(), "nobody", "whatever")
		assert.ErrorIs(t, err, app_errors.ErrBadCredential)
	})

	t.Run("each login issues its own refresh token", func(t *testing.T) {
		svc, users, tokens := newTestService(t)
		seedUser(t, users, "alice", "correct")

		first, err := svc.Login(context.Background(), "alice", "correct")
		require.NoError(t, err)
		second, err := svc.Login(context.Background(), "alice", "correct")
		require.NoError(t, err)

		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
		assert.Len(t, tokens.byToken, 2)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("hashes the password", func(t *testing.T) {
		svc, users, _ := newTestService(t)

		created, err := svc.Register(context.Background(), models.User{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.NotEqual(t, "secret123", created.Password)

		stored := users.byUsername["alice"]
		require.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		seedUser(t, users, "alice", "correct")

		_, err := svc.Register(context.Background(), models.User{
			Username: "alice",
			Email:    "other@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, app_errors.ErrUserExists)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("mints a new access token, keeps the refresh token", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		seedUser(t, users, "alice", "correct")

		login, err := svc.Login(context.Background(), "alice", "correct")
		require.NoError(t, err)

		result, err := svc.Refresh(context.Background(), login.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, login.RefreshToken, result.RefreshToken)
		assert.Equal(t, "alice", result.User.Username)

		subject, err := svc.ExtractUsername(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("reusable until expiry", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		seedUser(t, users, "alice", "correct")

		login, err := svc.Login(context.Background(), "alice", "correct")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := svc.Refresh(context.Background(), login.RefreshToken)
			require.NoError(t, err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Refresh(context.Background(), "neverIssued")
		assert.ErrorIs(t, err, app_errors.ErrRefreshTokenNotFound)
	})

	t.Run("expired token is purged", func(t *testing.T) {
		svc, users, tokens := newTestService(t)
		user := seedUser(t, users, "alice", "correct")

		expired, err := tokens.Create(context.Background(), models.RefreshToken{
			UserID:     user.ID,
			Username:   user.Username,
			Token:      "expired-token",
			ExpiryDate: time.Now().Add(-time.Minute),
		})
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), expired.Token)
		assert.ErrorIs(t, err, app_errors.ErrRefreshTokenExpired)

		_, err = svc.Refresh(context.Background(), expired.Token)
		assert.ErrorIs(t, err, app_errors.ErrRefreshTokenNotFound)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	t.Run("no token is a no-op", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		assert.NoError(t, svc.Logout(context.Background(), ""))
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		err := svc.Logout(context.Background(), "neverIssued")
		assert.ErrorIs(t, err, app_errors.ErrRefreshTokenNotFound)
	})

	t.Run("deletes the stored token", func(t *testing.T) {
		svc, users, tokens := newTestService(t)
		seedUser(t, users, "alice", "correct")

		login, err := svc.Login(context.Background(), "alice", "correct")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
		_, err = tokens.ByToken(context.Background(), login.RefreshToken)
		assert.ErrorIs(t, err, app_errors.ErrRefreshTokenNotFound)
	})
}

func TestVerifyExpiration_NilToken(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	err := svc.verifyExpiration(context.Background(), nil)
	assert.ErrorIs(t, err, app_errors.ErrNullToken)
}
