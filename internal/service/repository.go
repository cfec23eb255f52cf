package service

import (
	"context"

	"chatline/internal/model/auth"
	"chatline/internal/model/chat"
)

// Service 层只依赖这里声明的最小接口，具体实现在 internal/repository；
// 测试里用内存实现替换

// UserRepository 用户存储
type UserRepository interface {
	Create(ctx context.Context, user *auth.User) error
	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*auth.User, error)
	LinkGoogleAccount(ctx context.Context, id, googleID, picture string) error
}

// ConversationRepository 对话元数据存储
type ConversationRepository interface {
	Create(ctx context.Context, conv *chat.Conversation) error
	Find(ctx context.Context, userID, conversationID string) (*chat.Conversation, error)
	Touch(ctx context.Context, userID, conversationID string) error
	Rename(ctx context.Context, userID, conversationID, title string) (*chat.Conversation, error)
	ListByUserID(ctx context.Context, userID string) ([]*chat.Conversation, error)
	Delete(ctx context.Context, userID, conversationID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// MessageRepository 消息存储（仅追加）
type MessageRepository interface {
	Append(ctx context.Context, msg *chat.Message) error
	History(ctx context.Context, userID, conversationID string, limit int64) ([]chat.Message, error)
	CountByConversation(ctx context.Context, userID, conversationID string) (int64, error)
	DeleteByConversation(ctx context.Context, userID, conversationID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// CompletionProvider 外部文本生成服务
// 输入当前提问和（按时间升序的）上下文消息，返回生成的回复文本
type CompletionProvider interface {
	Complete(ctx context.Context, query string, history []chat.Message) (string, error)
}
