package middlewares

import (
	"errors"
	"livevibe/src/config"
	"livevibe/src/types"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

func jwtKey() []byte {
	return []byte(config.GetEnv("JWT_SECRET", ""))
}

// AuthMiddleware validates the bearer token and exposes the caller as "id",
// "email" and "role" on the gin context.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	reqToken, found := strings.CutPrefix(bearerToken, "Bearer ")
	if !found || strings.TrimSpace(reqToken) == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	key := jwtKey()
	if len(key) == 0 {
		log.Println("JWT_SECRET is not set")
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !tkn.Valid {
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
		}
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	uid, err := claims.UserID()
	if err != nil {
		log.Printf("error parsing claims: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx.Set("id", uid)
	ctx.Set("email", claims.Email)
	ctx.Set("role", claims.Role)
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString("role") != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		ctx.Next()
	}
}

func IsAdmin(ctx *gin.Context) bool {
	return ctx.GetString("role") == config.ROLE_ADMIN
}
