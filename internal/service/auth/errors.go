package auth

import "errors"

// Token validation failures. The auth middleware turns ErrExpiredToken into
// "Token expired" and the rest into "Invalid token".
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
	ErrWrongTokenType   = errors.New("wrong authentication token type")
)
