package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/logger"
	"github.com/innies-app/innies-backend/internal/service"
)

// Ограничение на размер тела вебхука.
const maxWebhookBody = 1 << 20

// WebhookHandler принимает события провайдера идентификации.
type WebhookHandler struct {
	identity *service.IdentityWebhook
}

func NewWebhookHandler(identity *service.IdentityWebhook) *WebhookHandler {
	return &WebhookHandler{identity: identity}
}

// Identity POST /webhooks/identity
func (h *WebhookHandler) Identity(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(c, "не удалось прочитать тело запроса")
		return
	}

	headers := service.WebhookHeaders{
		ID:        c.GetHeader("svix-id"),
		Timestamp: c.GetHeader("svix-timestamp"),
		Signature: c.GetHeader("svix-signature"),
	}

	eventType, user, err := h.identity.Handle(c.Request.Context(), headers, body)
	if err != nil {
		logger.Component("webhook").WithFields(logrus.Fields{
			"svix_id": headers.ID,
			"event":   eventType,
			"error":   err.Error(),
		}).Warn("вебхук отклонён")
		response.Error(c, err)
		return
	}

	entry := logger.Component("webhook").WithField("event", eventType)
	if user != nil {
		entry = entry.WithField("user_id", user.ID)
	}
	entry.Info("вебхук обработан")

	c.JSON(http.StatusOK, response.Response{Success: true, Data: gin.H{"received": true}})
}
