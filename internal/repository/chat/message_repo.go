package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatline/internal/model/chat"
	"chatline/internal/pkg/id"
)

// MessageRepo 消息仓库（仅追加）
type MessageRepo struct {
	collection *mongo.Collection
}

// NewMessageRepo 创建消息仓库
func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{
		collection: db.Collection("messages"),
	}
}

// Append 追加一条消息
func (r *MessageRepo) Append(ctx context.Context, msg *chat.Message) error {
	if msg.ID == "" {
		msg.ID = id.New()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

// History 查询对话历史，按时间升序
// limit > 0 时只返回最近的 limit 条（仍按升序返回）
func (r *MessageRepo) History(ctx context.Context, userID, conversationID string, limit int64) ([]chat.Message, error) {
	filter := bson.M{"user_id": userID, "conversation_id": conversationID}

	if limit > 0 {
		// 取最近 N 条：先按时间降序截断，再反转成升序
		opts := options.Find().
			SetSort(bson.D{bson.E{Key: "timestamp", Value: -1}}).
			SetLimit(limit)

		cursor, err := r.collection.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var msgs []chat.Message
		if err := cursor.All(ctx, &msgs); err != nil {
			return nil, err
		}

		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
		return msgs, nil
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "timestamp", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []chat.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}

	return msgs, nil
}

// CountByConversation 统计对话消息数
func (r *MessageRepo) CountByConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"user_id":         userID,
		"conversation_id": conversationID,
	})
}

// DeleteByConversation 删除对话的全部消息，返回删除条数
func (r *MessageRepo) DeleteByConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"user_id":         userID,
		"conversation_id": conversationID,
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteAllByUser 删除用户的全部消息，返回删除条数
func (r *MessageRepo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
