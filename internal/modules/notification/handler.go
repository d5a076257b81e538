package notification

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
	group := protected.Group("/notificaciones")
	{
		group.GET("", h.List)
		group.PUT("/:id/leer", h.MarkAsRead)
		group.PUT("/marcar-todas-leidas", h.MarkAllAsRead)
	}
}

type notificationResponse struct {
	ID        int64        `json:"id"`
	Type      string       `json:"tipo"`
	Title     string       `json:"titulo"`
	Message   string       `json:"mensaje,omitempty"`
	IsRead    bool         `json:"leida"`
	CreatedAt apitime.Time `json:"created_at"`
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: apitime.New(n.CreatedAt),
	}
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	onlyUnread := c.Query("no_leidas") == "true"

	items, unread, err := h.service.List(c.Request.Context(), userID, onlyUnread)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
		return
	}

	out := make([]notificationResponse, 0, len(items))
	for i := range items {
		out = append(out, toNotificationResponse(&items[i]))
	}

	response.Success(c, http.StatusOK, gin.H{
		"notificaciones": out,
		"no_leidas":      unread,
	})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification id")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Notificacion marcada como leida"})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notifications as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Todas las notificaciones marcadas como leidas"})
}
