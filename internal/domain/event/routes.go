package event

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	eventos := protected.Group("/eventos")
	{
		eventos.GET("", h.ListEvents)
		eventos.POST("", h.CreateEvent)
		eventos.GET("/:id", h.GetEvent)
		eventos.PUT("/:id", h.UpdateEvent)
		eventos.DELETE("/:id", h.DeleteEvent)
	}
}
