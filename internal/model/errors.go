package model

import "errors"

var (
	// User related errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// Bill related errors
	ErrBillNotFound = errors.New("bill not found")
)
