package service

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/innies-app/innies-backend/internal/logger"
)

// События, которые сервисы отправляют пользователям.
const (
	EventBookingCreated = "booking.created"
	EventBookingUpdated = "booking.updated"
	EventPaymentUpdated = "payment.updated"
	EventReviewCreated  = "review.created"
	EventChatCreated    = "chat.created"
	EventMessageCreated = "message.created"
)

// EventPublisher доставляет событие пользователю (WebSocket hub).
type EventPublisher interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// publish рассылает событие получателям. Ошибки доставки только логируются.
func publish(p EventPublisher, event string, data any, recipients ...uuid.UUID) {
	if p == nil {
		return
	}
	for _, userID := range recipients {
		if userID == uuid.Nil {
			continue
		}
		if err := p.BroadcastToUser(userID, event, data); err != nil {
			logger.Component("events").WithFields(logrus.Fields{
				"event":   event,
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("не удалось отправить событие")
		}
	}
}
