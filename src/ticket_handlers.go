package main

import (
	"livevibe/src/middlewares"
	"livevibe/src/tickets"
	"livevibe/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// publicTicketHandlers serves the verification URL embedded in QR codes.
func publicTicketHandlers(g *gin.RouterGroup, svc *tickets.Service) *gin.RouterGroup {
	g.GET("/tickets/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := svc.Verify(ctx.Request.Context(), params.UUID())
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, res)
	})
	return g
}

func ticketHandlers(g *gin.RouterGroup, svc *tickets.Service) *gin.RouterGroup {
	g.GET("/tickets/:id/qrcode", func(ctx *gin.Context) {
		uid, ok := currentUser(ctx)
		if !ok {
			return
		}
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		code, err := svc.QRCode(ctx.Request.Context(), uid, middlewares.IsAdmin(ctx), params.UUID())
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"qrcode": code})
	})
	return g
}
