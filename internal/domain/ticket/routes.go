package ticket

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	chamados := protected.Group("/chamados")
	{
		chamados.GET("", h.ListTickets)
		chamados.POST("", h.CreateTicket)
		chamados.GET("/stats", h.Stats)
		chamados.GET("/:id", h.GetTicket)
		chamados.PUT("/:id", h.UpdateTicket)
		chamados.DELETE("/:id", h.DeleteTicket)
	}
}
