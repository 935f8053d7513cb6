package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fathima-sithara/aichat-service/internal/domain"
	"github.com/fathima-sithara/aichat-service/internal/metrics"
)

const maxTitleLen = 100

// ChatStore is the chats-collection side. All operations are scoped to
// the owning user.
type ChatStore interface {
	Create(ctx context.Context, userID string) (*domain.Chat, error)
	Get(ctx context.Context, chatID, userID string) (*domain.Chat, error)
	AppendMessage(ctx context.Context, chatID, userID string, msg domain.Message) (*domain.Chat, error)
	Delete(ctx context.Context, chatID, userID string) (bool, error)
}

// UserChatIndex is the userchats-collection side: the per-user list of
// chat summaries the sidebar renders.
type UserChatIndex interface {
	EnsureUser(ctx context.Context, userID string) error
	AddEntry(ctx context.Context, userID, chatID, title string) error
	Touch(ctx context.Context, userID, chatID string) error
	Rename(ctx context.Context, userID, chatID, title string) error
	Remove(ctx context.Context, userID, chatID string) (bool, error)
	Get(ctx context.Context, userID string) (*domain.UserChats, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, v interface{}) error
}

// ChatService coordinates the two collections. Multi-step operations
// always write the chat side first and the index side second, so an
// interruption can leave a stale or extra index entry but never a message
// the index claims was saved when it wasn't. Nothing is rolled back;
// index-side failures after a committed chat write are logged and counted
// instead.
type ChatService struct {
	chats  ChatStore
	index  UserChatIndex
	events EventPublisher
	log    *zap.SugaredLogger
}

func NewChatService(chats ChatStore, index UserChatIndex, events EventPublisher, log *zap.SugaredLogger) *ChatService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ChatService{chats: chats, index: index, events: events, log: log}
}

// CreateAndAppend starts a new conversation with its first message: a new
// chat document, an index entry, then the message itself. A failure
// partway through leaves an orphan (empty chat or entry for an empty
// chat) and reports the error; retries create a fresh chat.
func (s *ChatService) CreateAndAppend(ctx context.Context, userID, text string, role domain.Role, title string) (*domain.Chat, error) {
	msg, err := newMessage(role, text)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = deriveTitle(text)
	}

	chat, err := s.chats.Create(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.index.EnsureUser(ctx, userID); err != nil {
		s.log.Warnw("chat created but index ensure failed, leaving orphan", "chat_id", chat.ID, "user_id", userID, "err", err)
		return nil, err
	}
	if err := s.index.AddEntry(ctx, userID, chat.ID, title); err != nil {
		s.log.Warnw("chat created but index entry failed, leaving orphan", "chat_id", chat.ID, "user_id", userID, "err", err)
		return nil, err
	}

	updated, err := s.chats.AppendMessage(ctx, chat.ID, userID, msg)
	if err != nil {
		s.log.Warnw("index entry exists for empty chat after append failure", "chat_id", chat.ID, "user_id", userID, "err", err)
		return nil, err
	}

	s.publish(ctx, "chat.created", chat.ID, userID)
	return updated, nil
}

// AppendToExisting saves the message, then refreshes the index entry's
// recency. The touch is best-effort: a stale sidebar ordering is better
// than failing a durably saved message.
func (s *ChatService) AppendToExisting(ctx context.Context, chatID, userID, text string, role domain.Role) (*domain.Chat, error) {
	msg, err := newMessage(role, text)
	if err != nil {
		return nil, err
	}

	chat, err := s.chats.AppendMessage(ctx, chatID, userID, msg)
	if err != nil {
		return nil, err
	}

	if err := s.index.Touch(ctx, userID, chatID); err != nil {
		metrics.IndexInconsistencies.WithLabelValues("append").Inc()
		s.log.Warnw("index touch failed after message append", "chat_id", chatID, "user_id", userID, "err", err)
	}

	s.publish(ctx, "chat.message", chatID, userID)
	return chat, nil
}

func (s *ChatService) GetHistoryPage(ctx context.Context, chatID, userID string, page, pageSize int) ([]domain.Message, Pagination, error) {
	if page < 1 || pageSize < 1 {
		return nil, Pagination{}, domain.ErrInvalidPage
	}
	chat, err := s.chats.Get(ctx, chatID, userID)
	if err != nil {
		return nil, Pagination{}, err
	}
	return PageHistory(chat.History, page, pageSize)
}

func (s *ChatService) GetUserChats(ctx context.Context, userID string) (*domain.UserChats, error) {
	return s.index.Get(ctx, userID)
}

// Rename only touches the index; the title lives nowhere else.
func (s *ChatService) Rename(ctx context.Context, userID, chatID, title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < 1 || n > maxTitleLen {
		return "", domain.ErrInvalidTitle
	}
	if err := s.index.Rename(ctx, userID, chatID, title); err != nil {
		return "", err
	}
	s.publish(ctx, "chat.renamed", chatID, userID)
	return title, nil
}

// Delete removes the chat document first. If the document is already gone
// the index is left untouched and the caller gets NotFound. A missing
// index entry after the document was deleted is the known inconsistency
// window: counted, logged, and still reported as NotFound.
func (s *ChatService) Delete(ctx context.Context, userID, chatID string) error {
	deleted, err := s.chats.Delete(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	removed, err := s.index.Remove(ctx, userID, chatID)
	if err != nil {
		metrics.IndexInconsistencies.WithLabelValues("delete").Inc()
		s.log.Warnw("chat deleted but index removal failed", "chat_id", chatID, "user_id", userID, "err", err)
		return err
	}
	if !removed {
		metrics.IndexInconsistencies.WithLabelValues("delete").Inc()
		s.log.Warnw("chat deleted but index entry was already missing", "chat_id", chatID, "user_id", userID)
		return domain.ErrNotFound
	}

	s.publish(ctx, "chat.deleted", chatID, userID)
	return nil
}

func (s *ChatService) publish(ctx context.Context, event, chatID, userID string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, chatID, map[string]interface{}{
		"event":   event,
		"chat_id": chatID,
		"user_id": userID,
	})
}

func newMessage(role domain.Role, text string) (domain.Message, error) {
	if !role.Valid() {
		return domain.Message{}, domain.ErrInvalidRole
	}
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	return domain.Message{Role: role, Parts: []domain.Part{{Text: text}}}, nil
}

// deriveTitle labels a new chat with the first few words of its first
// message, clipped to the title length limit.
func deriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) > 3 {
		words = words[:3]
	}
	title := strings.Join(words, " ")
	if utf8.RuneCountInString(title) > maxTitleLen {
		title = string([]rune(title)[:maxTitleLen])
	}
	return title
}
