package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Is reports equality by status code and message so sentinel values survive wrapping.
func (e *ErrorWithStatusCode) Is(target error) bool {
	t, ok := target.(*ErrorWithStatusCode)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Message == t.Message
}

var (
	ErrDuplicateId        = &ErrorWithStatusCode{Message: "User id already exists", StatusCode: http.StatusConflict}
	ErrInvalidCredentials = &ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	ErrMissingExtension   = &ErrorWithStatusCode{Message: "Attachment file name has no extension", StatusCode: http.StatusBadRequest}
	ErrForbidden          = &ErrorWithStatusCode{Message: "You are not allowed to change this post", StatusCode: http.StatusForbidden}
	ErrUnauthorized       = &ErrorWithStatusCode{Message: "Please log in to continue", StatusCode: http.StatusUnauthorized}
)

func NotFound(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func BadRequest(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// StatusCode returns the HTTP status attached to err, 500 if there is none.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return err != nil && StatusCode(err) == http.StatusNotFound
}

// IsUserFacing tells whether err carries a message meant for the end user.
func IsUserFacing(err error) bool {
	var e *ErrorWithStatusCode
	return errors.As(err, &e) && e.StatusCode < http.StatusInternalServerError
}
