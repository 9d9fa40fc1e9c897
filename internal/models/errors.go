package models

import "errors"

// Custom errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("record not found")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDuplicateKey     = errors.New("duplicate key violation")
)
