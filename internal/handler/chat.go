package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatline/internal/pkg/ctxutil"
	"chatline/internal/service"
)

// ChatRequest 对话请求
type ChatRequest struct {
	Query          string `json:"query" binding:"required"`          // 用户消息（必填）
	ConversationID string `json:"conversationId" binding:"required"` // 客户端生成的对话ID（必填）
}

// ChatHandler 对话处理器
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler 创建对话处理器
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat 处理一条用户消息并返回模型回复
// @Summary      发送消息
// @Description  追加用户消息、调用生成服务并返回回复
// @Tags         对话
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ChatRequest  true  "对话请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Failure      500      {object}  map[string]interface{}
// @Router       /api/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query and conversationId are required"})
		return
	}

	answer, err := h.chatService.Chat(c.Request.Context(), userID, req.ConversationID, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrEmptyConversationID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrCompletionFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch response from AI"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
