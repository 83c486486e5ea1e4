package common

import "errors"

// ErrTokenExpired reports a bearer token whose exp claim has passed.
var ErrTokenExpired = errors.New("token expired")
