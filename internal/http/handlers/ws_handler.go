package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/innies-app/innies-backend/internal/http/middleware"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/logger"
	"github.com/innies-app/innies-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	auth     *middleware.Authenticator
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт хэндлер. Origin проверяется по тому же списку, что и CORS.
func NewWSHandler(hub *ws.Hub, auth *middleware.Authenticator, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.Unauthorized(c, "токен обязателен")
		return
	}

	user, err := h.auth.Resolve(c.Request.Context(), rawToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту при ошибке.
		logger.Component("ws").WithField("error", err.Error()).Warn("не удалось открыть WebSocket")
		return
	}

	client := ws.NewClient(conn, h.hub, user.ID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
