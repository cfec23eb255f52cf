package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"chatline/internal/model/chat"
	"chatline/internal/pkg/cache"
)

var (
	ErrEmptyTitle           = errors.New("title is required")
	ErrConversationNotFound = errors.New("conversation not found")
)

// ConversationService 对话管理服务：列表、历史、重命名、清理
type ConversationService struct {
	convRepo ConversationRepository
	msgRepo  MessageRepository
	cache    *cache.RedisCache // 可选，nil 时跳过缓存
}

// NewConversationService 创建对话管理服务
func NewConversationService(convRepo ConversationRepository, msgRepo MessageRepository, redisCache *cache.RedisCache) *ConversationService {
	return &ConversationService{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		cache:    redisCache,
	}
}

// List 用户对话列表，按最近更新排序，每条附带消息数
func (s *ConversationService) List(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	if s.cache != nil {
		var cached []chat.ConversationSummary
		if err := s.cache.Get(ctx, cache.ConversationListKey(userID), &cached); err == nil {
			return cached, nil
		}
	}

	convs, err := s.convRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]chat.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		count, err := s.msgRepo.CountByConversation(ctx, userID, conv.ConversationID)
		if err != nil {
			log.Warn().Err(err).Str("conversation_id", conv.ConversationID).Msg("failed to count messages")
		}
		summaries = append(summaries, chat.ConversationSummary{
			ConversationID: conv.ConversationID,
			Title:          conv.Title,
			MessageCount:   count,
			CreatedAt:      conv.CreatedAt,
			UpdatedAt:      conv.UpdatedAt,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ConversationListKey(userID), summaries, cache.ConversationListTTL); err != nil {
			log.Debug().Err(err).Msg("failed to cache conversation list")
		}
	}

	return summaries, nil
}

// History 对话全部消息，按时间升序（不截断）
func (s *ConversationService) History(ctx context.Context, userID, conversationID string) ([]chat.Message, error) {
	return s.msgRepo.History(ctx, userID, conversationID, 0)
}

// Rename 重命名对话
func (s *ConversationService) Rename(ctx context.Context, userID, conversationID, title string) (*chat.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	conv, err := s.convRepo.Rename(ctx, userID, conversationID, title)
	if err != nil {
		return nil, ErrConversationNotFound
	}

	s.invalidateList(ctx, userID)
	return conv, nil
}

// Clear 删除对话的全部消息和元数据，返回删除的消息数
// 对话不存在时按空操作成功处理
func (s *ConversationService) Clear(ctx context.Context, userID, conversationID string) (int64, error) {
	deleted, err := s.msgRepo.DeleteByConversation(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}

	if _, err := s.convRepo.Delete(ctx, userID, conversationID); err != nil {
		return deleted, err
	}

	s.invalidateList(ctx, userID)

	log.Info().Str("conversation_id", conversationID).Int64("deleted", deleted).Msg("conversation cleared")
	return deleted, nil
}

// ClearAll 删除用户全部消息，连同对话元数据一起清掉
// （留下元数据会让列表里出现没有历史的空对话）；返回删除的消息数
func (s *ConversationService) ClearAll(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.msgRepo.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	if _, err := s.convRepo.DeleteAllByUser(ctx, userID); err != nil {
		return deleted, err
	}

	s.invalidateList(ctx, userID)

	log.Info().Str("user_id", userID).Int64("deleted", deleted).Msg("all conversations cleared")
	return deleted, nil
}

// invalidateList 清掉用户的对话列表缓存
func (s *ConversationService) invalidateList(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ConversationListKey(userID)); err != nil {
		log.Debug().Err(err).Msg("failed to invalidate conversation list cache")
	}
}
