package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/service"
)

// VideoHandler выдаёт токены для видеозвонков.
type VideoHandler struct {
	issuer *service.VideoTokenIssuer
}

func NewVideoHandler(issuer *service.VideoTokenIssuer) *VideoHandler {
	return &VideoHandler{issuer: issuer}
}

// Token GET /video-call/token?room=&username=
func (h *VideoHandler) Token(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	identity := c.Query("username")
	if identity == "" {
		identity = userID.String()
	}

	token, err := h.issuer.Issue(c.Query("room"), identity, c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}
