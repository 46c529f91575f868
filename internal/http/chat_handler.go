package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bnl-store/internal/domain"
	"bnl-store/internal/service"
)

// chatService es lo que el handler necesita del pipeline de chat.
type chatService interface {
	Handle(ctx context.Context, sessionID, message string) (service.ChatResult, error)
	History(ctx context.Context, sessionID string) (domain.Conversation, []domain.Message, error)
}

// ChatHandler expone el endpoint conversacional y el historial por sesión.
type ChatHandler struct {
	logger *zap.Logger
	chat   chatService
}

func NewChatHandler(logger *zap.Logger, chat chatService) *ChatHandler {
	return &ChatHandler{logger: logger, chat: chat}
}

// PostChat maneja POST /api/chatbot.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.chat.Handle(c.Request.Context(), req.SessionID, req.Message)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"response":        result.Response,
			"message_id":      result.MessageID,
			"conversation_id": result.ConversationID,
		})
	case errors.Is(err, service.ErrSessionRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
	case errors.Is(err, service.ErrTooManyMessages):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many messages"})
	case errors.Is(err, service.ErrCompletionFailed):
		// El mensaje del usuario ya quedó persistido; el cliente recibe la
		// disculpa fija y el detalle queda para diagnóstico.
		c.JSON(http.StatusInternalServerError, gin.H{
			"response": service.FallbackResponse,
			"error":    err.Error(),
		})
	default:
		h.logger.Error("chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
	}
}

// GetHistory maneja GET /api/chatbot/history/:session_id.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Param("session_id")

	conv, messages, err := h.chat.History(c.Request.Context(), sessionID)
	switch {
	case err == nil:
		if messages == nil {
			messages = []domain.Message{}
		}
		c.JSON(http.StatusOK, gin.H{
			"id":         conv.ID,
			"session_id": conv.SessionID,
			"created_at": conv.CreatedAt,
			"messages":   messages,
		})
	case errors.Is(err, service.ErrConversationNotFound), errors.Is(err, service.ErrSessionRequired):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	default:
		h.logger.Error("get history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
	}
}
