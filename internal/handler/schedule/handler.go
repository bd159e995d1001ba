package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/handler"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/service/schedule"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	hours := r.Group("/working-hours")
	{
		hours.GET("", h.ListWorkingHours)
		hours.PUT("", h.UpsertWorkingHours)
	}

	dayOffs := r.Group("/day-offs")
	{
		dayOffs.GET("", h.ListDayOffs)
		dayOffs.POST("", h.CreateDayOff)
		dayOffs.DELETE("/:id", h.DeleteDayOff)
	}
}

func (h *Handler) ListWorkingHours(c *gin.Context) {
	hours, err := h.service.ListWorkingHours(c.Request.Context())
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}

func (h *Handler) UpsertWorkingHours(c *gin.Context) {
	var req model.UpsertWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	wh, err := h.service.UpsertWorkingHours(c.Request.Context(), &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(wh))
}

// ListDayOffs returns every day off, or only those in [from, to) when both
// query parameters are present.
func (h *Handler) ListDayOffs(c *gin.Context) {
	var (
		dayOffs []model.DayOff
		err     error
	)
	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		dayOffs, err = h.service.ListDayOffsInRange(c.Request.Context(), from, to)
	} else {
		dayOffs, err = h.service.ListDayOffs(c.Request.Context())
	}
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dayOffs))
}

func (h *Handler) CreateDayOff(c *gin.Context) {
	var req model.CreateDayOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	d, err := h.service.CreateDayOff(c.Request.Context(), &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(d))
}

func (h *Handler) DeleteDayOff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid day-off ID"))
		return
	}

	if err := h.service.DeleteDayOff(c.Request.Context(), id); err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
