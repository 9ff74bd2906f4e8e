package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/service"
)

type WebSocketHandler struct {
	ws *service.WebSocketService
}

func NewWebSocketHandler(ws *service.WebSocketService) *WebSocketHandler {
	return &WebSocketHandler{ws: ws}
}

func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	h.ws.HandleChat(c.Writer, c.Request)
}
