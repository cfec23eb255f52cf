package chat

import (
	"time"
)

// Conversation 对话元数据
// ConversationID 由客户端生成，按 (UserID, ConversationID) 维度唯一；
// 消息本身存放在 messages 集合，这里只有标题和时间戳
type Conversation struct {
	ID             string    `bson:"_id,omitempty" json:"-"`                  // UUID格式的ID
	UserID         string    `bson:"user_id" json:"-"`                        // 所属用户
	ConversationID string    `bson:"conversation_id" json:"conversationId"`  // 客户端生成的对话ID
	Title          string    `bson:"title" json:"title"`                     // 标题（首条消息截断生成，可重命名）
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// TitleMaxLen 标题从首条消息截取的最大可见字符数
const TitleMaxLen = 50

// DeriveTitle 从首条消息生成对话标题
// 超过 50 个字符时截断并追加省略号；标题只在创建时生成一次，
// 后续消息不会重新计算
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= TitleMaxLen {
		return firstMessage
	}
	return string(runes[:TitleMaxLen]) + "..."
}

// ConversationSummary 对话列表条目（附带消息数）
type ConversationSummary struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title"`
	MessageCount   int64     `json:"messageCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
