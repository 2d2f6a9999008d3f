package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBooking POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req models.CreateBookingInput
	if !common.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// GetBooking GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, booking)
}

// ListBookings GET /bookings?role=provider|seeker&status=
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListUserBookings(c.Request.Context(), userID, c.Query("role"), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, bookings)
}

// ListProviderUpcoming GET /providers/:id/upcoming
func (h *BookingHandler) ListProviderUpcoming(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	bookings, err := h.bookings.ListProviderUpcoming(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, bookings)
}

// UpdateStatus PUT /bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status      string  `json:"status" binding:"required"`
		MeetingLink *string `json:"meeting_link"`
	}
	if !common.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.UpdateBookingStatus(c.Request.Context(), userID, id, req.Status, req.MeetingLink)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, booking)
}

// CancelBooking POST /bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	if c.Request.ContentLength > 0 && !common.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), userID, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, booking)
}
