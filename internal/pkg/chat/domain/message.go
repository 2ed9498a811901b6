package chat

import (
	"strings"
	"time"
	"unicode/utf8"
)

const previewMaxLen = 80

// Message is one entry in a conversation's history. Rows are never removed:
// deletion tombstones the message (content and media cleared, Deleted set) so
// history length and ordering stay intact.
type Message struct {
	ID             string     `db:"id"`
	ConversationID string     `db:"conversation_id"`
	SenderID       string     `db:"sender_id"`
	RecipientID    string     `db:"recipient_id"`
	Body           string     `db:"body"`
	MediaURLs      []string   `db:"media_urls"`
	MediaKinds     []string   `db:"media_kinds"` // parallel to MediaURLs
	DeliveredAt    time.Time  `db:"delivered_at"`
	ReadAt         *time.Time `db:"read_at"`
	Edited         bool       `db:"edited"`
	Deleted        bool       `db:"deleted"`
	CreatedAt      time.Time  `db:"created_at"`
}

// ValidateContent enforces the creation rule: a message must carry a body or
// at least one media reference, and the media kind list must parallel the
// media list.
func ValidateContent(body string, mediaURLs, mediaKinds []string) error {
	if strings.TrimSpace(body) == "" && len(mediaURLs) == 0 {
		return ErrEmptyMessage
	}
	if len(mediaURLs) != len(mediaKinds) {
		return ErrMediaKindMismatch
	}
	return nil
}

// NewMessage builds a validated message ready to persist. The delivery
// timestamp is stamped here; read state starts empty.
func NewMessage(conversationID, senderID, recipientID, body string, mediaURLs, mediaKinds []string, now time.Time) (*Message, error) {
	body = strings.TrimSpace(body)
	if err := ValidateContent(body, mediaURLs, mediaKinds); err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		Body:           body,
		MediaURLs:      mediaURLs,
		MediaKinds:     mediaKinds,
		DeliveredAt:    now,
		CreatedAt:      now,
	}, nil
}

// Edit replaces the body on behalf of requester. Media is immutable after
// creation and tombstones cannot be edited.
func (m *Message) Edit(requester, newBody string) error {
	if m.SenderID != requester {
		return ErrNotSender
	}
	if m.Deleted {
		return ErrMessageDeleted
	}
	newBody = strings.TrimSpace(newBody)
	if newBody == "" {
		return ErrEmptyMessage
	}
	m.Body = newBody
	m.Edited = true
	return nil
}

// SoftDelete tombstones the message on behalf of requester: content and media
// are cleared but the row survives so ordering is preserved. Deleting an
// already-deleted message is a no-op.
func (m *Message) SoftDelete(requester string) error {
	if m.SenderID != requester {
		return ErrNotSender
	}
	m.Body = ""
	m.MediaURLs = nil
	m.MediaKinds = nil
	m.Deleted = true
	return nil
}

// Preview returns the text cached on the conversation row after a send.
func (m *Message) Preview() string {
	if m.Body != "" {
		if utf8.RuneCountInString(m.Body) <= previewMaxLen {
			return m.Body
		}
		runes := []rune(m.Body)
		return string(runes[:previewMaxLen])
	}
	if len(m.MediaKinds) > 0 {
		return "[" + m.MediaKinds[0] + "]"
	}
	return ""
}
