package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/kyc-backend/internal/service"
	"github.com/ignatzorin/kyc-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений для ожидания
// итога верификации: устройство, показавшее ссылку, подписывается по
// токену и получает результат, когда верификация завершится на другом
// устройстве.
type WSHandler struct {
	hub      *ws.Hub
	tokens   *service.VerifyTokenService
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер.
func NewWSHandler(hub *ws.Hub, tokens *service.VerifyTokenService) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle обслуживает GET /api/verify/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "токен верификации обязателен"})
		return
	}

	tokenID, err := uuid.Parse(rawToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат токена"})
		return
	}

	// Подписка допускается только на существующий токен
	if _, err := h.tokens.Get(c.Request.Context(), tokenID); err != nil {
		c.Error(err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	client := ws.NewClient(conn, h.hub, tokenID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
