package types

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims carried by access tokens. Subject is the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
