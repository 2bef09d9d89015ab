package postgres

import (
	"context"
	"errors"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokensPostgres persists refresh tokens. Tokens are opaque random
// strings with a unique constraint; every lookup is an exact value
// match.
type TokensPostgres struct {
	db *pgxpool.Pool
}

func NewTokensPostgres(db *pgxpool.Pool) *TokensPostgres {
	return &TokensPostgres{db: db}
}

func (r *TokensPostgres) Create(ctx context.Context, token models.RefreshToken) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expiry_date, revoked)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, token.UserID, token.Token, token.ExpiryDate, token.Revoked).Scan(&token.ID)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *TokensPostgres) ByToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error) {
	query := `
		SELECT rt.id, rt.user_id, u.username, rt.token, rt.expiry_date, rt.revoked
		FROM refresh_tokens rt
		JOIN users u ON u.id = rt.user_id
		WHERE rt.token = $1
	`
	var token models.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenValue).
		Scan(&token.ID, &token.UserID, &token.Username, &token.Token, &token.ExpiryDate, &token.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *TokensPostgres) DeleteByToken(ctx context.Context, tokenValue string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	tag, err := r.db.Exec(ctx, query, tokenValue)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrRefreshTokenNotFound
	}
	return nil
}
