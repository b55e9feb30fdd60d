package models

import "github.com/golang-jwt/jwt/v4"

// Identity is the user object carried inside a session token.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// SessionClaims are custom claims extending standard jwt.RegisteredClaims
type SessionClaims struct {
	Identity
	jwt.RegisteredClaims
}

// TokenRequest defines the request body for POST /jwt. IDToken is only
// required when Firebase verification is configured.
type TokenRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"omitempty,max=100"`
	Photo   string `json:"photo" validate:"omitempty,url"`
	IDToken string `json:"idToken"`
}
