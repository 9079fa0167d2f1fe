package main

import (
	"livevibe/src/middlewares"
	"livevibe/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var statusByKind = map[types.ErrorKind]int{
	types.ERR_NOT_FOUND:     http.StatusNotFound,
	types.ERR_CONFLICT:      http.StatusConflict,
	types.ERR_INVALID_STATE: http.StatusBadRequest,
	types.ERR_UNAUTHORIZED:  http.StatusUnauthorized,
	types.ERR_VALIDATION:    http.StatusBadRequest,
}

// respondWithError writes business errors as {"error": message}. Anything
// else is logged and reported as a bare 500.
func respondWithError(ctx *gin.Context, err error) {
	kind := types.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		log.Printf("Error handling %s %s: %s\n", ctx.Request.Method, ctx.FullPath(), err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	uid, ok := middlewares.CurrentUserID(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return uid, ok
}
