package models

// User is the account entity. Username is unique and immutable after
// creation; Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID       int64
	Username string
	Email    string
	Password string
}
