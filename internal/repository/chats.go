package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/aichat-service/internal/domain"
)

// ChatRepo owns the chats collection. Every read and write is scoped to
// the owning user: a chat id from another user behaves as if absent.
type ChatRepo struct {
	coll *mongo.Collection
}

func NewChatRepo(db *mongo.Database) *ChatRepo {
	coll := db.Collection("chats")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
		Options: options.Index().SetName("user_updated_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &ChatRepo{coll: coll}
}

func (r *ChatRepo) Create(ctx context.Context, userID string) (*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := time.Now().UTC()
	chat := &domain.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		History:   []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepo) Get(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c domain.Chat
	if err := r.coll.FindOne(ctx, bson.M{"_id": chatID, "user_id": userID}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if c.History == nil {
		c.History = []domain.Message{}
	}
	return &c, nil
}

// AppendMessage pushes one message onto the history. The $push plus
// updated_at $set commit atomically per document.
func (r *ChatRepo) AppendMessage(ctx context.Context, chatID, userID string, msg domain.Message) (*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": chatID, "user_id": userID},
		bson.M{
			"$push": bson.M{"history": msg},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var c domain.Chat
	if err := res.Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepo) Delete(ctx context.Context, chatID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": chatID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
