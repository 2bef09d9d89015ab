package app_errors

import (
	"errors"
	"net/http"
)

// ResourceError is the error currency of the API: a stable code, a
// human readable message and the HTTP status the boundary answers
// with. Services and repositories return the sentinel instances below
// so callers can match with errors.Is.
type ResourceError struct {
	Code    string
	Message string
	Status  int
}

func (e *ResourceError) Error() string {
	return e.Message
}

func New(code, message string, status int) *ResourceError {
	return &ResourceError{Code: code, Message: message, Status: status}
}

var (
	ErrBadCredential = New("BadCredential", "Bad Credential", http.StatusUnauthorized)
	ErrLogin         = New("LoginError", "Error while user login.", http.StatusInternalServerError)

	ErrUserNotFound = New("UserNotFound", "The user ID is not found in the database.", http.StatusNotFound)
	ErrUserExists   = New("UserAlreadyExists", "The user already exists.", http.StatusConflict)
	ErrCreateUser   = New("CreateUserError", "Error while creating the user.", http.StatusInternalServerError)
	ErrUpdateUser   = New("UpdateUserError", "Error while updating the user.", http.StatusInternalServerError)
	ErrDeleteUser   = New("DeleteUserError", "Error while deleting the user.", http.StatusInternalServerError)

	ErrRefreshTokenNotFound = New("RefreshTokenNotFound", "The refresh token is not found.", http.StatusNotFound)
	ErrRefreshTokenExpired  = New("ExpiredRefreshToken", "Refresh token was expired. Please make a new authentication request", http.StatusUnauthorized)
	ErrNullToken            = New("NullToken", "Token is null", http.StatusBadRequest)

	ErrTokenSignature     = New("IncorrectTokenSignature", "Token signature is incorrect, the token is not valid.", http.StatusUnauthorized)
	ErrAccessTokenExpired = New("ExpiredAccessToken", "Token expired, the token is not valid.", http.StatusUnauthorized)
	ErrUnauthenticated    = New("Unauthenticated", "You are not allowed to reach this endpoint because you are unauthenticated.", http.StatusUnauthorized)

	ErrBookNotFound = New("BookNotFound", "The book ID is not found in the database.", http.StatusNotFound)
	ErrCreateBook   = New("CreateBookError", "Error while creating the book.", http.StatusInternalServerError)
	ErrUpdateBook   = New("UpdateBookError", "Error while updating the book.", http.StatusInternalServerError)
	ErrDeleteBook   = New("DeleteBookError", "Error while deleting the book.", http.StatusInternalServerError)
)

// From classifies an arbitrary error into a ResourceError. Unclassified
// errors collapse into a generic 500 so no internal detail leaks to
// the client.
func From(err error) *ResourceError {
	var re *ResourceError
	if errors.As(err, &re) {
		return re
	}
	return New("InternalError", "Internal server error.", http.StatusInternalServerError)
}
