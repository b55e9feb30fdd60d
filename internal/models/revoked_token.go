package models

import "time"

// RevokedToken is a logged-out session kept in PostgreSQL until the token would have expired anyway.
type RevokedToken struct {
	JTI       string    `json:"jti" gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}
