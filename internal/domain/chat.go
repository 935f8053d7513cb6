package domain

import "time"

// Role identifies who produced a message. Only the two values below are
// ever persisted.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

type Part struct {
	Text string `bson:"text" json:"text"`
}

type Message struct {
	Role  Role   `bson:"role" json:"role"`
	Parts []Part `bson:"parts" json:"parts"`
}

// Chat holds the full ordered history of one conversation. History is
// append-only; entries are never reordered or edited in place.
type Chat struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	History   []Message `bson:"history" json:"history"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ChatSummary is one entry of a user's chat list. Its ID always equals
// the ID of a document in the chats collection owned by the same user.
type ChatSummary struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserChats is the per-user chat index, one document per user.
type UserChats struct {
	UserID string        `bson:"_id" json:"user_id"`
	Chats  []ChatSummary `bson:"chats" json:"chats"`
}
