package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes 创建所有集合的索引，应用启动时调用一次
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	// users 集合索引
	// username/email 全局唯一；google_id 唯一但允许缺失（本地账号没有该字段）
	userColl := db.Collection("users")
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_username").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "google_id", Value: 1}},
			Options: options.Index().SetName("idx_google_id").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	if err := CreateIndexes(ctx, userColl, userIndexes); err != nil {
		return err
	}

	// conversations 集合索引
	// conversation_id 按 (user_id, conversation_id) 维度唯一，避免跨用户冲突
	convColl := db.Collection("conversations")
	convIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}, bson.E{Key: "conversation_id", Value: 1}},
			Options: options.Index().SetName("idx_user_conversation").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}, bson.E{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_user_updated"),
		},
	}

	if err := CreateIndexes(ctx, convColl, convIndexes); err != nil {
		return err
	}

	// messages 集合索引（历史按时间升序读取）
	msgColl := db.Collection("messages")
	msgIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				bson.E{Key: "user_id", Value: 1},
				bson.E{Key: "conversation_id", Value: 1},
				bson.E{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetName("idx_user_conversation_ts"),
		},
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user_id"),
		},
	}

	return CreateIndexes(ctx, msgColl, msgIndexes)
}

// CreateIndexes 辅助函数：创建索引
func CreateIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
