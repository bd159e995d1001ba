package request

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/handler"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/service/request"
)

type Handler struct {
	service *request.Service
}

func NewHandler(service *request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/requests", h.CreateRequest)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	{
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("/:id/approve", h.ApproveRequest)
		requests.POST("/:id/reject", h.RejectRequest)
		requests.DELETE("/:id", h.DeleteRequest)
	}
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var req model.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sr, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(sr))
}

func (h *Handler) GetRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	sr, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sr))
}

func (h *Handler) ListRequests(c *gin.Context) {
	var statusFilter *model.RequestStatus
	if s := c.Query("status"); s != "" {
		rs := model.RequestStatus(s)
		if !rs.Valid() {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid status"))
			return
		}
		statusFilter = &rs
	}

	requests, err := h.service.List(c.Request.Context(), statusFilter)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

// ApproveRequest schedules the request as a booking. The booking and the
// status flip either both land or neither does; a conflict leaves the
// request pending for the admin to retry with another slot.
func (h *Handler) ApproveRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	var req model.ApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, err := h.service.Approve(c.Request.Context(), id, &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(b))
}

func (h *Handler) RejectRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	var req model.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sr, err := h.service.Reject(c.Request.Context(), id, &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sr))
}

func (h *Handler) DeleteRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
