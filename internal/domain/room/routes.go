package room

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/salas", h.ListRooms)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/salas", h.ListAllRooms)
	admin.POST("/salas", h.CreateRoom)
	admin.PUT("/salas/:id", h.UpdateRoom)
	admin.PUT("/salas/:id/status", h.SetStatus)
}
