package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePayment POST /payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		BookingID       string  `json:"booking_id" binding:"required,uuid"`
		PaymentMethod   string  `json:"payment_method" binding:"required"`
		PaymentIntentID *string `json:"payment_intent_id"`
	}
	if !common.BindJSON(c, &req) {
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), userID, mustUUID(req.BookingID), req.PaymentMethod, req.PaymentIntentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// GetPayment GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, payment)
}

// GetBookingPayment GET /bookings/:id/payment
func (h *PaymentHandler) GetBookingPayment(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	bookingID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.GetPaymentByBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, payment)
}

// ListPayments GET /payments?role=payer|receiver&status=
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	payments, err := h.payments.ListUserPayments(c.Request.Context(), userID, c.Query("role"), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, payments)
}

// UpdateStatus PUT /payments/:id/status
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status          string  `json:"status" binding:"required"`
		PaymentIntentID *string `json:"payment_intent_id"`
	}
	if !common.BindJSON(c, &req) {
		return
	}

	payment, err := h.payments.UpdatePaymentStatus(c.Request.Context(), userID, id, req.Status, req.PaymentIntentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, payment)
}

// Refund POST /payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
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

	result, err := h.payments.ProcessRefund(c.Request.Context(), userID, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Earnings GET /payments/earnings?provider_id=&from=&to=
func (h *PaymentHandler) Earnings(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	providerID, ok := common.OptionalUUIDQuery(c, "provider_id")
	if !ok {
		return
	}
	from, ok := timeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := timeQuery(c, "to")
	if !ok {
		return
	}

	earnings, err := h.payments.ProviderEarnings(c.Request.Context(), userID, providerID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, earnings)
}

// timeQuery читает необязательную дату в RFC3339.
func timeQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.BadRequest(c, "параметр "+key+" должен быть датой в формате RFC3339")
		return nil, false
	}
	return &t, true
}
