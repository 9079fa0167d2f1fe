package main

import (
	"livevibe/src/middlewares"
	"livevibe/src/orders"
	"livevibe/src/types"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func orderHandlers(g *gin.RouterGroup, svc *orders.Service) *gin.RouterGroup {
	g.
		POST("/orders/create", func(ctx *gin.Context) {
			uid, ok := currentUser(ctx)
			if !ok {
				return
			}
			var body types.CreateOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			summary, err := svc.PlaceOrder(ctx.Request.Context(), uid, orders.PlaceOrderInput{
				EventID:    uuid.MustParse(body.EventID),
				SeatTypeID: uuid.MustParse(body.SeatTypeID),
				Quantity:   body.Quantity,
				Buyer: types.BuyerInfo{
					FirstName: strings.TrimSpace(body.FirstName),
					LastName:  strings.TrimSpace(body.LastName),
					Email:     strings.TrimSpace(body.Email),
				},
			})
			if err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": summary})
		}).
		PATCH("/orders/refund-order/:id", func(ctx *gin.Context) {
			uid, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := svc.RefundOrder(ctx.Request.Context(), uid, params.UUID()); err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Order refunded."})
		}).
		PATCH("/orders/refund/:id", func(ctx *gin.Context) {
			uid, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := svc.RefundTicket(ctx.Request.Context(), uid, params.UUID()); err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Ticket refunded."})
		}).
		GET("/orders/:id", func(ctx *gin.Context) {
			uid, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			order, err := svc.GetOrder(ctx.Request.Context(), uid, params.UUID(), middlewares.IsAdmin(ctx))
			if err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": order})
		}).
		GET("/orders", func(ctx *gin.Context) {
			uid, ok := currentUser(ctx)
			if !ok {
				return
			}
			list, err := svc.ListOrders(ctx.Request.Context(), uid)
			if err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list})
		})

	return g
}

// ticketPurchaseHandlers exposes the single-ticket purchase path. Purchases
// are one-ticket orders, so a purchase id is an order id.
func ticketPurchaseHandlers(g *gin.RouterGroup, svc *orders.Service) *gin.RouterGroup {
	g.
		POST("/ticket-purchases/purchase", func(ctx *gin.Context) {
			uid, ok := currentUser(ctx)
			if !ok {
				return
			}
			var body types.PurchaseTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			summary, err := svc.PurchaseTicket(ctx.Request.Context(), uid, uuid.MustParse(body.TicketID))
			if err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": summary})
		}).
		PATCH("/ticket-purchases/refund/:id", func(ctx *gin.Context) {
			uid, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := svc.RefundOrder(ctx.Request.Context(), uid, params.UUID()); err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Purchase refunded."})
		})

	return g
}
