package repository

import (
	"context"
	"errors"
	"time"

	chat "socialite/internal/pkg/chat/domain"
)

// ErrNotFound is returned when a referenced conversation or message does not
// exist. Adapters translate their backend's no-rows error into this.
var ErrNotFound = errors.New("chat repository: not found")

// ChatRepository defines persistence operations for the direct-messaging
// domain. Participant pairs passed to EnsureConversation must already be in
// canonical order (chat.PairKey).
type ChatRepository interface {
	// EnsureConversation returns the conversation for the pair, creating it
	// if absent. Concurrent calls for the same pair must converge on one row.
	EnsureConversation(ctx context.Context, userA, userB string, now time.Time) (*chat.Conversation, error)

	GetConversation(ctx context.Context, id string) (*chat.Conversation, error)

	// ListConversations returns every conversation the user participates in,
	// most recent activity first.
	ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error)

	// ListMessages returns a page of messages in ascending chronological
	// order. A non-nil before bounds the page to messages created strictly
	// earlier (backward pagination).
	ListMessages(ctx context.Context, conversationID string, limit int, before *time.Time) ([]chat.Message, error)

	// SaveMessage persists the message and returns the generated ID.
	SaveMessage(ctx context.Context, m chat.Message) (string, error)

	GetMessage(ctx context.Context, id string) (*chat.Message, error)

	// UpdateMessageBody replaces the body and marks the message edited.
	UpdateMessageBody(ctx context.Context, id, body string) error

	// SoftDeleteMessage clears content and media and sets the deleted flag;
	// the row is retained.
	SoftDeleteMessage(ctx context.Context, id string) error

	// MarkConversationRead stamps read-now on every unread message addressed
	// to recipientID in the conversation; returns how many were marked.
	MarkConversationRead(ctx context.Context, conversationID, recipientID string, at time.Time) (int64, error)

	// TouchConversation updates the cached last-activity fields after a send.
	TouchConversation(ctx context.Context, conversationID string, at time.Time, preview, senderID string) error
}
