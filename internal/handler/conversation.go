package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatline/internal/pkg/ctxutil"
	"chatline/internal/service"
)

// RenameConversationRequest 重命名请求
type RenameConversationRequest struct {
	Title string `json:"title" binding:"required"` // 新标题（必填，非空白）
}

// ConversationHandler 对话管理处理器：列表、历史、重命名、清理
type ConversationHandler struct {
	convService *service.ConversationService
}

// NewConversationHandler 创建对话管理处理器
func NewConversationHandler(convService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// List 获取对话列表
// @Summary      对话列表
// @Description  当前用户的对话列表，按最近更新排序，附带消息数
// @Tags         对话
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	conversations, err := h.convService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// History 获取对话历史（升序，不截断）
// @Summary      对话历史
// @Tags         对话
// @Produce      json
// @Security     BearerAuth
// @Param        conversationId  path  string  true  "对话ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/history/{conversationId} [get]
func (h *ConversationHandler) History(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	history, err := h.convService.History(c.Request.Context(), userID, c.Param("conversationId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// Rename 重命名对话
// @Summary      重命名对话
// @Tags         对话
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        conversationId  path  string                      true  "对话ID"
// @Param        request         body  RenameConversationRequest  true  "重命名请求"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/history/{conversationId} [put]
func (h *ConversationHandler) Rename(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req RenameConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	conv, err := h.convService.Rename(c.Request.Context(), userID, c.Param("conversationId"), req.Title)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTitle):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename conversation"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "conversation renamed successfully",
		"conversation": conv,
	})
}

// Clear 删除单个对话（消息 + 元数据）
// @Summary      删除对话
// @Tags         对话
// @Produce      json
// @Security     BearerAuth
// @Param        conversationId  path  string  true  "对话ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/history/{conversationId} [delete]
func (h *ConversationHandler) Clear(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	deleted, err := h.convService.Clear(c.Request.Context(), userID, c.Param("conversationId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "conversation deleted successfully",
		"deletedCount": deleted,
	})
}

// ClearAll 删除当前用户的全部对话
// @Summary      清空全部对话
// @Tags         对话
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/history [delete]
func (h *ConversationHandler) ClearAll(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	deleted, err := h.convService.ClearAll(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear all conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "all conversations cleared successfully",
		"deletedCount": deleted,
	})
}
