package services

import "errors"

// ErrInvalidInput marks request-level validation failures. Handlers map it
// to 400; anything unrecognized is logged and returned as a generic 500 so
// storage errors never reach callers.
var ErrInvalidInput = errors.New("invalid input")
