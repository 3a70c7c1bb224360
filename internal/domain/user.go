package domain

import "time"

// User is the aggregate root for a person recording times.
type User struct {
	ID                int64
	UserID            string
	Username          string
	EncryptedPassword string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Times             []Time
}

// UserDTO is the transport-facing shape of a User. Password carries the plaintext
// credential on the way in and is never filled when converting from a stored User.
type UserDTO struct {
	ID                int64  `json:"id"`
	UserID            string `json:"user_id"`
	Username          string `json:"username" binding:"required,max=24"`
	Password          string `json:"password,omitempty" binding:"required"`
	EncryptedPassword string `json:"-"`
}

// MaxUsernameLength bounds the username column.
const MaxUsernameLength = 24
