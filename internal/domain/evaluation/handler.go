package evaluation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portal/internal/middleware"
	"portal/internal/pkg/response"
	"portal/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListEvaluations handles GET /api/avaliacoes?avaliadorId=&avaliadoId=&status=&periodo=
func (h *Handler) ListEvaluations(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	f := Filter{Status: Status(c.Query("status")), Period: c.Query("periodo")}
	var err error
	if f.EvaluatorID, err = queryInt64(c, "avaliadorId"); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid avaliadorId")
		return
	}
	if f.EvaluateeID, err = queryInt64(c, "avaliadoId"); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid avaliadoId")
		return
	}

	items, err := h.service.List(c.Request.Context(), actor, f)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetEvaluation(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *Handler) CreateEvaluation(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", errs)
		return
	}

	e, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e)
}

// SubmitEvaluation handles POST /api/avaliacoes/:id/submit
func (h *Handler) SubmitEvaluation(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	e, err := h.service.Submit(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *Handler) DeleteEvaluation(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// Logs handles GET /api/avaliacoes/logs?avaliacaoId=&avaliadoId=&limit=
func (h *Handler) Logs(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var (
		f   LogFilter
		err error
	)
	if f.EvaluationID, err = queryInt64(c, "avaliacaoId"); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid avaliacaoId")
		return
	}
	if f.EvaluateeID, err = queryInt64(c, "avaliadoId"); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid avaliadoId")
		return
	}
	if v := c.Query("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}

	logs, err := h.service.Logs(c.Request.Context(), actor, f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, logs)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.CustomError(c, http.StatusNotFound, "EVALUATION_NOT_FOUND", "Evaluation not found")
	case errors.Is(err, ErrForbidden):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to access this evaluation")
	case errors.Is(err, ErrAlreadyConcluded):
		response.CustomError(c, http.StatusConflict, "EVALUATION_CONCLUDED", "Evaluation is already concluded")
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, key string) (int64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
