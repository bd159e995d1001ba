package booking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/handler"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/service/booking"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes exposes the public write path: customers create bookings,
// they never read or change them.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bookings", h.CreateBooking)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(b))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) ListBookings(c *gin.Context) {
	filters := &model.BookingFilters{}

	if d := c.Query("date"); d != "" {
		date, err := time.Parse(time.DateOnly, d)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date, expected YYYY-MM-DD"))
			return
		}
		filters.Date = &date
	}

	if s := c.Query("status"); s != "" {
		status := model.BookingStatus(s)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid status"))
			return
		}
		filters.Status = &status
	}

	bookings, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req model.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		status := handler.ErrorStatus(err)
		c.JSON(status, handler.NewErrorResponse(handler.AbortMessage(status, err)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
