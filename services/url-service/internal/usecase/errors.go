package usecase

import (
	"errors"
	"fmt"
)

// Error kinds returned for rejected requests.
var (
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

var (
	ErrShortCodeTaken    = fmt.Errorf("%w: short code already in use", ErrConflict)
	ErrShortURLNotFound  = fmt.Errorf("%w: short url not found", ErrNotFound)
	ErrInvalidShortURLID = fmt.Errorf("%w: invalid short url id", ErrBadRequest)
)
