package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	ID           int64     `json:"id" db:"id"`                 // Primary key
	Username     string    `json:"username" db:"username"`     // Unique username
	PasswordHash string    `json:"-" db:"password_hash"`       // Hashed password, never serialized
	SizeGB       int64     `json:"size" db:"size_gb"`          // Storage quota in gigabytes
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}

// UserListItem is a user row without the password hash, as returned by the
// diagnostic user listing.
type UserListItem struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	SizeGB    int64     `json:"size" db:"size_gb"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
