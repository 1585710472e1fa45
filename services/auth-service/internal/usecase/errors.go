package usecase

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package for a rejected
// precondition wraps exactly one of them.
var (
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrNotImplemented = errors.New("not implemented")
)

var (
	ErrAccountAlreadyExists     = fmt.Errorf("%w: username or email already exists", ErrConflict)
	ErrInvalidCredentials       = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidRefreshToken      = fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	ErrInvalidVerificationToken = fmt.Errorf("%w: invalid verification token", ErrUnauthorized)
	ErrInvalidAccountID         = fmt.Errorf("%w: invalid account id", ErrBadRequest)
)
