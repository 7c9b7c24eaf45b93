package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims identify the holder of a session. ExpiresAt is always written by the
// Issuer; any value supplied by the caller is overwritten.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// header is the fixed first segment of every token.
type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

const tokenType = "JWT"
