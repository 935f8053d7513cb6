package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/aichat-service/internal/domain"
)

// UserChatsRepo owns the userchats collection: one document per user
// holding that user's chat summaries. Entries are updated in place with
// the positional operator, never rewritten wholesale.
type UserChatsRepo struct {
	coll *mongo.Collection
}

func NewUserChatsRepo(db *mongo.Database) *UserChatsRepo {
	return &UserChatsRepo{coll: db.Collection("userchats")}
}

func (r *UserChatsRepo) EnsureUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	doc := bson.M{"_id": userID, "chats": []domain.ChatSummary{}}
	_, err := r.coll.UpdateByID(ctx, userID, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	return err
}

// AddEntry appends a summary for chatID. An empty title falls back to
// "Chat {N}" where N counts the user's existing entries plus one.
func (r *UserChatsRepo) AddEntry(ctx context.Context, userID, chatID, title string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if title == "" {
		var uc domain.UserChats
		if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&uc); err != nil {
			if err == mongo.ErrNoDocuments {
				return domain.ErrNotFound
			}
			return err
		}
		title = fmt.Sprintf("Chat %d", len(uc.Chats)+1)
	}

	now := time.Now().UTC()
	entry := domain.ChatSummary{ID: chatID, Title: title, CreatedAt: now, UpdatedAt: now}
	_, err := r.coll.UpdateByID(ctx, userID, bson.M{"$push": bson.M{"chats": entry}})
	return err
}

func (r *UserChatsRepo) Touch(ctx context.Context, userID, chatID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": userID, "chats.id": chatID},
		bson.M{"$set": bson.M{"chats.$.updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Rename sets the entry's title. It deliberately leaves updated_at alone:
// only new messages count as activity for the recency sort.
func (r *UserChatsRepo) Rename(ctx context.Context, userID, chatID, title string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": userID, "chats.id": chatID},
		bson.M{"$set": bson.M{"chats.$.title": title}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserChatsRepo) Remove(ctx context.Context, userID, chatID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"chats": bson.M{"id": chatID}}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *UserChatsRepo) Get(ctx context.Context, userID string) (*domain.UserChats, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var uc domain.UserChats
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&uc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if uc.Chats == nil {
		uc.Chats = []domain.ChatSummary{}
	}
	return &uc, nil
}
