package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/apitime"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/reservas/:id/historial", h.ListForReservation)
}

type entryResponse struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Action    string       `json:"accion"`
	Detail    string       `json:"detalle,omitempty"`
	CreatedAt apitime.Time `json:"created_at"`
}

func (h *Handler) ListForReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	userID := c.GetInt64("user_id")
	isAdmin := domain.UserRole(c.GetString("role")) == domain.RoleAdmin

	entries, err := h.service.ListForReservation(c.Request.Context(), userID, isAdmin, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to view this reservation history")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reservation history")
		}
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    string(e.Action),
			Detail:    e.Detail,
			CreatedAt: apitime.New(e.CreatedAt),
		})
	}

	response.Success(c, http.StatusOK, gin.H{"historial": out})
}
