package evaluation

import "github.com/gin-gonic/gin"

// RegisterProtectedRoutes mounts /avaliacoes. Stats are limited to managers
// by the caller-supplied guard.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup, statsGuard gin.HandlerFunc) {
	avaliacoes := protected.Group("/avaliacoes")
	{
		avaliacoes.GET("", h.ListEvaluations)
		avaliacoes.POST("", h.CreateEvaluation)
		avaliacoes.GET("/logs", h.Logs)
		avaliacoes.GET("/stats", statsGuard, h.Stats)
		avaliacoes.GET("/:id", h.GetEvaluation)
		avaliacoes.DELETE("/:id", h.DeleteEvaluation)
		avaliacoes.POST("/:id/submit", h.SubmitEvaluation)
	}
}
