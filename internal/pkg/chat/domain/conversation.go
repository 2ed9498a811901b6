package chat

import (
	"errors"
	"time"
)

// Domain-level errors for direct-messaging behaviors.
var (
	ErrNotParticipant    = errors.New("chat: user is not a participant in the conversation")
	ErrNotFriends        = errors.New("chat: sender and recipient are not mutual friends")
	ErrNotSender         = errors.New("chat: only the sender may modify a message")
	ErrEmptyMessage      = errors.New("chat: empty message (no body or media)")
	ErrMessageDeleted    = errors.New("chat: message has been deleted")
	ErrSelfConversation  = errors.New("chat: cannot start a conversation with yourself")
	ErrMediaKindMismatch = errors.New("chat: media list and media kind list differ in length")
)

// Conversation is the durable container for a two-party thread. Exactly one
// conversation exists per unordered participant pair; UserA always holds the
// lexically smaller ID so the pair doubles as the uniqueness key.
type Conversation struct {
	ID                 string    `db:"id"`
	UserA              string    `db:"user_a"`
	UserB              string    `db:"user_b"`
	LastMessageAt      time.Time `db:"last_message_at"`
	LastMessagePreview string    `db:"last_message_preview"`
	LastSenderID       string    `db:"last_sender_id"`
	CreatedAt          time.Time `db:"created_at"`
}

// PairKey returns the two user IDs in canonical (sorted) order. Both call
// orders of the same pair yield the same key.
func PairKey(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// HasParticipant tells whether userID belongs to this conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c != nil && (c.UserA == userID || c.UserB == userID)
}

// Counterpart returns the other participant's ID, or "" if userID is not a
// participant.
func (c *Conversation) Counterpart(userID string) string {
	switch {
	case c == nil:
		return ""
	case c.UserA == userID:
		return c.UserB
	case c.UserB == userID:
		return c.UserA
	default:
		return ""
	}
}
