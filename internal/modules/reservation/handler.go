package reservation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/apitime"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/response"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/reservas")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.PUT("/:id/cancelar", h.Cancel)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to create reservation")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reserva": toResponse(r)})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	r, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeError(c, err, "Failed to load reservation")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reserva": toResponse(r)})
}

func (h *Handler) List(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rs, err := h.service.List(c.Request.Context(), actorFrom(c), q)
	if err != nil {
		h.writeError(c, err, "Failed to list reservations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservas": toResponses(rs)})
}

// Update dispatches to the owner or admin update path. The raw body is
// checked against a per-role field allow-list before binding so that an
// unexpected key is rejected instead of silently dropped. user_id is
// never accepted from anyone.
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	actor := actorFrom(c)

	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	allowed := ownerAllowedFields
	if actor.IsAdmin() {
		allowed = adminAllowedFields
	}
	if invalid, err := invalidFields(body, allowed); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	} else if len(invalid) > 0 {
		h.writeError(c, &ForbiddenFieldsError{Fields: invalid}, "Failed to update reservation")
		return
	}

	var r *domain.Reservation
	if actor.IsAdmin() {
		var req AdminUpdateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		r, err = h.service.UpdateByAdmin(c.Request.Context(), actor, id, req)
	} else {
		var req OwnerUpdateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		if req.Start.Time.IsZero() || req.End.Time.IsZero() {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "fecha_inicio and fecha_fin are required")
			return
		}
		r, err = h.service.UpdateByOwner(c.Request.Context(), actor, id, req)
	}
	if err != nil {
		h.writeError(c, err, "Failed to update reservation")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reserva": toResponse(r)})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	r, err := h.service.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeError(c, err, "Failed to cancel reservation")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reserva": toResponse(r)})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var conflict *repository.ConflictError
	var forbidden *ForbiddenFieldsError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "SCHEDULING_CONFLICT",
			"The resource is already reserved for the requested interval",
			gin.H{"ocupado": conflict.Slots})
	case errors.As(err, &forbidden):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "FORBIDDEN_FIELDS",
			"Request contains fields that cannot be updated",
			gin.H{"invalid_fields": forbidden.Fields})
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrResourceUnavailable):
		response.Error(c, http.StatusUnprocessableEntity, "RESOURCE_UNAVAILABLE",
			"The resource is not available for reservations")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_STATE",
			"The reservation state does not allow this operation")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to act on this reservation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		ID:   c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return 0, false
	}
	return id, true
}

// invalidFields returns the body keys outside the allow-list. user_id
// is excluded from every allow-list, so it always shows up here.
func invalidFields(body []byte, allowed []string) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	var invalid []string
	for key := range raw {
		ok := false
		for _, f := range allowed {
			if key == f {
				ok = true
				break
			}
		}
		if !ok {
			invalid = append(invalid, key)
		}
	}
	return invalid, nil
}

func parseListQuery(c *gin.Context) (ListQuery, error) {
	q := ListQuery{State: c.Query("estado")}

	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, errors.New("user_id must be an integer")
		}
		q.UserID = &id
	}
	if v := c.Query("recurso_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, errors.New("recurso_id must be an integer")
		}
		q.ResourceID = &id
	}
	if v := c.Query("desde"); v != "" {
		t, err := time.Parse(apitime.Layout, v)
		if err != nil {
			return q, errors.New("desde must use the format 2006-01-02 15:04:05")
		}
		q.From = &t
	}
	if v := c.Query("hasta"); v != "" {
		t, err := time.Parse(apitime.Layout, v)
		if err != nil {
			return q, errors.New("hasta must use the format 2006-01-02 15:04:05")
		}
		q.Until = &t
	}

	return q, nil
}
