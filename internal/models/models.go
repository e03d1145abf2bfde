package models

import "time"

// User is a registered account. Email is the login identifier; the
// password is only ever stored as a bcrypt hash.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:120;not null"`
	Email        string `gorm:"uniqueIndex;size:190;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Group is a chat group. GroupID is the generated public identifier
// handed out over the hub; ID stays internal to the database.
type Group struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	GroupID   string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
}

// Session is a server-side session row. Token is the opaque value held
// by the browser cookie; UserID is nil until the session is authenticated.
// Data carries the JSON-encoded payload, including one-time flash messages.
type Session struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;size:128;not null"`
	UserID    *uint     `gorm:"index"`
	Data      []byte    `gorm:"type:blob"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
