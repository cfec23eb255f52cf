package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"chatline/internal/model/chat"
	"chatline/internal/pkg/cache"
)

// historyLimit 构造提示词时携带的最大历史消息数
const historyLimit = 20

var (
	ErrEmptyQuery          = errors.New("query is required")
	ErrEmptyConversationID = errors.New("conversationId is required")
	ErrCompletionFailed    = errors.New("failed to fetch response from AI")
)

// ChatService 对话服务 - 业务逻辑层
// 职责: 编排对话元数据、消息持久化和外部生成服务
type ChatService struct {
	provider CompletionProvider
	convRepo ConversationRepository
	msgRepo  MessageRepository
	cache    *cache.RedisCache // 可选，nil 时跳过缓存
}

// NewChatService 创建对话服务
func NewChatService(provider CompletionProvider, convRepo ConversationRepository, msgRepo MessageRepository, redisCache *cache.RedisCache) *ChatService {
	return &ChatService{
		provider: provider,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		cache:    redisCache,
	}
}

// Chat 处理一条用户消息
// 流程: 补齐对话元数据 -> 落库用户消息 -> 取最近历史 -> 调用生成服务
// -> 落库回复 -> 返回回复文本
//
// 生成服务失败时用户消息已持久化，不做补偿回滚：对话里会留下
// 一条没有回复的用户消息，由调用方收到 ErrCompletionFailed
func (s *ChatService) Chat(ctx context.Context, userID, conversationID, query string) (string, error) {
	if query == "" {
		return "", ErrEmptyQuery
	}
	if conversationID == "" {
		return "", ErrEmptyConversationID
	}

	logger := log.With().Str("user_id", userID).Str("conversation_id", conversationID).Logger()

	// 1. 对话元数据：首条消息创建（标题取自消息截断），后续只刷新时间戳
	if _, err := s.convRepo.Find(ctx, userID, conversationID); err != nil {
		conv := &chat.Conversation{
			UserID:         userID,
			ConversationID: conversationID,
			Title:          chat.DeriveTitle(query),
		}
		if err := s.convRepo.Create(ctx, conv); err != nil {
			logger.Error().Err(err).Msg("failed to create conversation")
			return "", err
		}
	} else {
		if err := s.convRepo.Touch(ctx, userID, conversationID); err != nil {
			logger.Warn().Err(err).Msg("failed to touch conversation")
		}
	}

	// 2. 落库用户消息
	userMsg := &chat.Message{
		UserID:         userID,
		ConversationID: conversationID,
		Role:           chat.RoleUser,
		Text:           query,
	}
	if err := s.msgRepo.Append(ctx, userMsg); err != nil {
		logger.Error().Err(err).Msg("failed to save user message")
		return "", err
	}
	s.invalidateList(ctx, userID)

	// 3. 最近 20 条历史作为上下文（升序，含刚写入的用户消息）
	history, err := s.msgRepo.History(ctx, userID, conversationID, historyLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load history, continuing without context")
		history = nil
	}

	// 4. 调用外部生成服务
	answer, err := s.provider.Complete(ctx, query, history)
	if err != nil {
		logger.Error().Err(err).Msg("completion provider failed")
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	// 5. 落库回复
	botMsg := &chat.Message{
		UserID:         userID,
		ConversationID: conversationID,
		Role:           chat.RoleBot,
		Text:           answer,
	}
	if err := s.msgRepo.Append(ctx, botMsg); err != nil {
		// 回复已经生成，落库失败只告警，不向调用方返回错误
		logger.Warn().Err(err).Msg("failed to save bot message")
	}

	logger.Info().Int("history_len", len(history)).Msg("chat completed")

	return answer, nil
}

// invalidateList 清掉用户的对话列表缓存
func (s *ChatService) invalidateList(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ConversationListKey(userID)); err != nil {
		log.Debug().Err(err).Msg("failed to invalidate conversation list cache")
	}
}
