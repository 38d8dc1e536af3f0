package services

import "errors"

// Sentinel errors returned by the service layer. Services wrap these
// with context via fmt.Errorf, so handlers must map them to HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidPrice       = errors.New("price must not be negative")
	ErrInvalidImage       = errors.New("only jpeg, jpg, png and gif images are allowed")
)
