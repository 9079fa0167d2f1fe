package main

import (
	"livevibe/src/events"
	"livevibe/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// adminEventHandlers expects the group to be guarded by the Admin role.
func adminEventHandlers(g *gin.RouterGroup, svc *events.Service) *gin.RouterGroup {
	g.
		POST("/event-seat-types/create", func(ctx *gin.Context) {
			var body types.CreateSeatTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			seatType, err := svc.CreateSeatType(ctx.Request.Context(), events.CreateSeatTypeInput{
				EventID:  uuid.MustParse(body.EventID),
				Name:     body.Name,
				Capacity: body.Capacity,
				Price:    body.Price,
			})
			if err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": seatType})
		}).
		GET("/event-seat-types/:id/audit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			audit, err := svc.AuditSeatType(ctx.Request.Context(), params.UUID())
			if err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": audit})
		}).
		DELETE("/events/delete/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			removed, err := svc.DeleteEvent(ctx.Request.Context(), params.UUID())
			if err != nil {
				respondWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted.", "orphan_orders_deleted": removed})
		})

	return g
}
