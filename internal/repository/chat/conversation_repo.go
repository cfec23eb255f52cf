package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatline/internal/model/chat"
)

// ConversationRepo 对话元数据仓库
// 所有查询都带 user_id 条件：对话不跨用户共享
type ConversationRepo struct {
	collection *mongo.Collection
}

// NewConversationRepo 创建对话仓库
func NewConversationRepo(db *mongo.Database) *ConversationRepo {
	return &ConversationRepo{
		collection: db.Collection("conversations"),
	}
}

// Create 创建对话
func (r *ConversationRepo) Create(ctx context.Context, conv *chat.Conversation) error {
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, conv)
	return err
}

// Find 按 (user_id, conversation_id) 查询
func (r *ConversationRepo) Find(ctx context.Context, userID, conversationID string) (*chat.Conversation, error) {
	var conv chat.Conversation
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":         userID,
		"conversation_id": conversationID,
	}).Decode(&conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Touch 刷新对话的 updated_at
func (r *ConversationRepo) Touch(ctx context.Context, userID, conversationID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "conversation_id": conversationID},
		bson.M{"$set": bson.M{"updated_at": time.Now()}},
	)
	return err
}

// Rename 修改对话标题，返回更新后的对话
// 对话不存在时返回 mongo.ErrNoDocuments
func (r *ConversationRepo) Rename(ctx context.Context, userID, conversationID, title string) (*chat.Conversation, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conv chat.Conversation
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "conversation_id": conversationID},
		bson.M{"$set": bson.M{"title": title, "updated_at": time.Now()}},
		opts,
	).Decode(&conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByUserID 查询用户对话列表，按最近更新排序
func (r *ConversationRepo) ListByUserID(ctx context.Context, userID string) ([]*chat.Conversation, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []*chat.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}

	return convs, nil
}

// Delete 删除对话元数据，返回删除条数（不存在时为0，不报错）
func (r *ConversationRepo) Delete(ctx context.Context, userID, conversationID string) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"user_id":         userID,
		"conversation_id": conversationID,
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteAllByUser 删除用户的全部对话元数据
func (r *ConversationRepo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
