package models

// Book belongs to exactly one user. Title is immutable after creation;
// CoverKey is the object storage key of the uploaded cover, empty when
// no cover has been uploaded yet.
type Book struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Author      string
	CoverKey    string
}
