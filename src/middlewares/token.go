package middlewares

import (
	"errors"
	"livevibe/src/types"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// IssueToken signs an HS256 access token for the user, valid for ttl.
func IssueToken(userID uuid.UUID, email, role string, ttl time.Duration) (string, error) {
	key := jwtKey()
	if len(key) == 0 {
		return "", errors.New("JWT_SECRET is not set")
	}
	now := time.Now()
	claims := types.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	v, ok := ctx.Get("id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
