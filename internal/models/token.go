package models

import "github.com/google/uuid"

// TokenPayload is the verified content of an auth token.
type TokenPayload struct {
	ID      uuid.UUID
	UserID  uint64
	Role    UserRole
	IsStaff bool
}
