package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/response"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/validator"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the read endpoints for every authenticated user
// and the write endpoints behind the admin gate.
func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	protected.GET("/tipo-recursos", h.ListTypes)
	protected.GET("/tipo-recursos/:id", h.GetType)
	protected.GET("/recursos", h.ListResources)
	protected.GET("/recursos/:id", h.GetResource)

	admin.POST("/tipo-recursos", h.CreateType)
	admin.PUT("/tipo-recursos/:id", h.UpdateType)
	admin.DELETE("/tipo-recursos/:id", h.DeleteType)
	admin.POST("/recursos", h.CreateResource)
	admin.PUT("/recursos/:id", h.UpdateResource)
	admin.DELETE("/recursos/:id", h.DeleteResource)
}

func (h *Handler) CreateType(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid fields", errs)
		return
	}

	t, err := h.service.CreateType(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create resource type")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"tipo_recurso": toTypeResponse(t)})
}

func (h *Handler) GetType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	t, err := h.service.GetType(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load resource type")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tipo_recurso": toTypeResponse(t)})
}

func (h *Handler) ListTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to list resource types")
		return
	}

	out := make([]TypeResponse, 0, len(types))
	for i := range types {
		out = append(out, toTypeResponse(&types[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"tipo_recursos": out})
}

func (h *Handler) UpdateType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid fields", errs)
		return
	}

	t, err := h.service.UpdateType(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update resource type")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tipo_recurso": toTypeResponse(t)})
}

func (h *Handler) DeleteType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteType(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete resource type")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Tipo de recurso eliminado correctamente"})
}

func (h *Handler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid fields", errs)
		return
	}

	r, err := h.service.CreateResource(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create resource")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"recurso": toResourceResponse(r)})
}

func (h *Handler) GetResource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	r, err := h.service.GetResource(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load resource")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"recurso": toResourceResponse(r)})
}

func (h *Handler) ListResources(c *gin.Context) {
	var f repository.ResourceFilter

	if v := c.Query("tipo_recurso_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "tipo_recurso_id must be an integer")
			return
		}
		f.TypeID = &id
	}
	if v := c.Query("disponible"); v != "" {
		avail, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "disponible must be a boolean")
			return
		}
		f.Available = &avail
	}

	resources, err := h.service.ListResources(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err, "Failed to list resources")
		return
	}

	out := make([]ResourceResponse, 0, len(resources))
	for i := range resources {
		out = append(out, toResourceResponse(&resources[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"recursos": out})
}

func (h *Handler) UpdateResource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid fields", errs)
		return
	}

	r, err := h.service.UpdateResource(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update resource")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"recurso": toResourceResponse(r)})
}

func (h *Handler) DeleteResource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteResource(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete resource")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Recurso eliminado correctamente"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Catalog entry not found")
	case errors.Is(err, ErrTypeInUse):
		response.Error(c, http.StatusConflict, "TYPE_IN_USE", "The resource type still has resources")
	case errors.Is(err, ErrResourceInUse):
		response.Error(c, http.StatusConflict, "RESOURCE_IN_USE", "The resource has active reservations")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
