package models

import "time"

// RefreshToken is the persisted opaque credential paired with a signed
// access token. Token is globally unique and immutable; the record is
// created at login, deleted on logout or detected expiry, and never
// mutated in between.
type RefreshToken struct {
	ID         int64
	UserID     int64
	Username   string
	Token      string
	ExpiryDate time.Time
	Revoked    bool
}

// AuthResult pairs the authenticated user with a freshly minted access
// token and the refresh token string. Never persisted.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
}
