package repository

import (
	"context"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
)

// ConversationRepository defines the storage operations for chat threads and
// their messages. Messages are append-only; creation timestamps are assigned
// by the store.
type ConversationRepository interface {
	Create(ctx context.Context, c *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)

	// GetByJobAndPair looks up the unique conversation for a job and a
	// participant pair, in either participant order.
	GetByJobAndPair(ctx context.Context, jobID, a, b string) (*entity.Conversation, error)

	// ListForUser returns the user's conversations, most recent message first.
	ListForUser(ctx context.Context, userID string) ([]entity.Conversation, error)

	// SetHired flips the hired flag on. It is never reset within a job.
	SetHired(ctx context.Context, conversationID string) error

	// AppendMessage stores m with a server-assigned timestamp, filling
	// m.ID and m.CreatedAt, and updates the conversation's last-message
	// summary fields.
	AppendMessage(ctx context.Context, m *entity.Message) error

	// ListMessages returns a conversation's messages ordered by creation time
	// ascending.
	ListMessages(ctx context.Context, conversationID string) ([]entity.Message, error)
}
