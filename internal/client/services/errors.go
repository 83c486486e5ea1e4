package services

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailure is returned by Signin when the backend rejects
	// the credentials or cannot be reached.
	ErrAuthenticationFailure = errors.New("authentication failed")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	// ErrMissingToken reports a successful login or registration response
	// that carried no bearer token.
	ErrMissingToken = errors.New("backend returned no auth token")
)

// Signup error codes.
const (
	SignupCodeDuplicateEmail   = 1
	SignupCodePasswordMismatch = 2
)

// SignupError is the tagged outcome of a rejected registration.
type SignupError struct {
	Code int
	Err  error
}

func (e *SignupError) Error() string {
	return fmt.Sprintf("signup error %d: %v", e.Code, e.Err)
}

func (e *SignupError) Unwrap() error { return e.Err }
