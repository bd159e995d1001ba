package availability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/handler"
	"github.com/agendafacil/booking-api/internal/service/availability"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
}

// GetAvailability answers GET /availability?service_id=...&date=YYYY-MM-DD.
func (h *Handler) GetAvailability(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service_id"))
		return
	}

	date, err := time.Parse(time.DateOnly, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date, expected YYYY-MM-DD"))
		return
	}

	avail, err := h.service.GetAvailability(c.Request.Context(), serviceID, date)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(avail))
}
