package service

import (
	"errors"
	"net/http"
)

var (
	ErrObjectExists = errors.New("the resource already exists")
	ErrMissingToken = errors.New("missing authorization header")
)

// AuthError carries the identity provider's judgement back to the caller.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func NewAuthError(message string, err error) *AuthError {
	return &AuthError{Status: http.StatusUnauthorized, Message: message, Err: err}
}
