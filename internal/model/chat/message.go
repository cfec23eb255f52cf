package chat

import (
	"time"
)

// Message 单条消息
// 只追加、不修改；删除只发生在按对话/按用户的批量清理里
type Message struct {
	ID             string    `bson:"_id,omitempty" json:"-"`
	UserID         string    `bson:"user_id" json:"-"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	Role           Role      `bson:"role" json:"role"`
	Text           string    `bson:"text" json:"text"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}

// Role 消息角色
type Role string

const (
	RoleUser Role = "user" // 用户输入
	RoleBot  Role = "bot"  // 模型回复
)

// IsValid 检查角色是否有效
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleBot
}

// String 返回角色字符串
func (r Role) String() string {
	return string(r)
}
