package reservation

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portal/internal/middleware"
	"portal/internal/pkg/response"
	"portal/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// Feed streams a key's events to a websocket client.
type Feed interface {
	ServeWS(c *gin.Context, key string)
}

type Handler struct {
	service *Service
	feed    Feed
}

func NewHandler(service *Service, feed Feed) *Handler {
	return &Handler{service: service, feed: feed}
}

// ListReservations handles GET /api/salas/reservas?salaId=&usuarioId=&status=&dataInicio=&dataFim=
func (h *Handler) ListReservations(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	items, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// CreateReservation handles POST /api/salas and POST /api/salas/reservas
func (h *Handler) CreateReservation(c *gin.Context) {
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

	res, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// UpdateReservation handles PUT /api/salas/:id. A body with status
// "Cancelada" cancels the reservation instead.
func (h *Handler) UpdateReservation(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", errs)
		return
	}

	res, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) DeleteReservation(c *gin.Context) {
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
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// Availability handles GET /api/salas/:id/disponibilidade?data=YYYY-MM-DD
func (h *Handler) Availability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	day := time.Now().UTC()
	if raw := c.Query("data"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "data must be YYYY-MM-DD")
			return
		}
		day = d
	}

	slots, err := h.service.Availability(c.Request.Context(), id, day)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"salaId":  id,
		"data":    day.Format(dateLayout),
		"ocupado": slots,
	})
}

// Watch handles GET /api/salas/ws?salaId= and streams that room's events.
func (h *Handler) Watch(c *gin.Context) {
	if h.feed == nil {
		response.CustomError(c, http.StatusServiceUnavailable, "FEED_DISABLED", "Realtime feed is not enabled")
		return
	}
	roomID, err := strconv.ParseInt(c.Query("salaId"), 10, 64)
	if err != nil || roomID <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "salaId is required")
		return
	}
	h.feed.ServeWS(c, RoomKey(roomID))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.CustomError(c, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found")
	case errors.Is(err, ErrRoomNotFound):
		response.CustomError(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
	case errors.Is(err, ErrRoomInactive):
		response.CustomError(c, http.StatusUnprocessableEntity, "ROOM_INACTIVE", "Room is not available for booking")
	case errors.Is(err, ErrConflict):
		response.CustomError(c, http.StatusConflict, "RESERVATION_CONFLICT", ErrConflict.Error())
	case errors.Is(err, ErrForbidden):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to change this reservation")
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

func parseFilter(c *gin.Context) (Filter, error) {
	var f Filter

	if v := c.Query("salaId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errors.New("invalid salaId")
		}
		f.RoomID = id
	}
	if v := c.Query("usuarioId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errors.New("invalid usuarioId")
		}
		f.UserID = id
	}
	if v := c.Query("status"); v != "" {
		st := Status(v)
		if !st.Valid() {
			return f, errors.New("invalid status")
		}
		f.Status = st
	}
	if v := c.Query("dataInicio"); v != "" {
		t, _, err := parseInstant(v)
		if err != nil {
			return f, errors.New("invalid dataInicio")
		}
		f.From = &t
	}
	if v := c.Query("dataFim"); v != "" {
		t, dateOnly, err := parseInstant(v)
		if err != nil {
			return f, errors.New("invalid dataFim")
		}
		// a bare date includes the whole day
		if dateOnly {
			t = t.Add(24 * time.Hour)
		}
		f.To = &t
	}
	return f, nil
}

func parseInstant(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateLayout, v)
	return t, true, err
}
