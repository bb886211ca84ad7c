package models

import "errors"

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderFinalized    = errors.New("order is in a terminal status")
	ErrOrderNotEditable  = errors.New("order items can no longer be changed")

	ErrWeakPassword = errors.New("password does not meet strength requirements")
)
