package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/handler"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/service/catalog"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes exposes the public catalog: active services only.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListActiveServices)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
		services.POST("", h.CreateService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeactivateService)
	}
}

func (h *Handler) ListActiveServices(c *gin.Context) {
	services, err := h.service.List(c.Request.Context(), true)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.List(c.Request.Context(), false)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	svc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(svc))
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	svc, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(svc))
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	var req model.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	svc, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(svc))
}

func (h *Handler) DeactivateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
