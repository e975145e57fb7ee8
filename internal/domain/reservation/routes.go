package reservation

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	salas := protected.Group("/salas")
	{
		salas.POST("", h.CreateReservation)
		salas.GET("/reservas", h.ListReservations)
		salas.POST("/reservas", h.CreateReservation)
		salas.GET("/reservas/:id", h.GetReservation)
		salas.GET("/ws", h.Watch)
		salas.GET("/:id/disponibilidade", h.Availability)
		salas.PUT("/:id", h.UpdateReservation)
		salas.DELETE("/:id", h.DeleteReservation)
	}
}
