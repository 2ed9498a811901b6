package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

// EnsureConversation upserts on the sorted pair. The no-op DO UPDATE makes
// RETURNING yield the existing row when a concurrent create loses the race,
// so both racers converge on the same conversation.
func (r *PgChatRepository) EnsureConversation(ctx context.Context, userA, userB string, now time.Time) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (user_a, user_b, last_message_at, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $3)
		ON CONFLICT (user_a, user_b)
		DO UPDATE SET user_a = EXCLUDED.user_a
		RETURNING id::text, user_a::text, user_b::text, last_message_at,
		          COALESCE(last_message_preview, ''), COALESCE(last_sender_id::text, ''), created_at
	`, userA, userB, now).Scan(
		&c.ID, &c.UserA, &c.UserB, &c.LastMessageAt,
		&c.LastMessagePreview, &c.LastSenderID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgChatRepository) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, user_a::text, user_b::text, last_message_at,
		       COALESCE(last_message_preview, ''), COALESCE(last_sender_id::text, ''), created_at
		FROM chat.conversation
		WHERE id = $1::uuid
	`, id).Scan(
		&c.ID, &c.UserA, &c.UserB, &c.LastMessageAt,
		&c.LastMessagePreview, &c.LastSenderID, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgChatRepository) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_a::text, user_b::text, last_message_at,
		       COALESCE(last_message_preview, ''), COALESCE(last_sender_id::text, ''), created_at
		FROM chat.conversation
		WHERE user_a = $1::uuid OR user_b = $1::uuid
		ORDER BY last_message_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(
			&c.ID, &c.UserA, &c.UserB, &c.LastMessageAt,
			&c.LastMessagePreview, &c.LastSenderID, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string, limit int, before *time.Time) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// Page is selected newest-first so "limit newest before X" works, then
	// flipped to ascending for the client.
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, recipient_id::text,
		       body, media_urls, media_kinds, delivered_at, read_at, edited, deleted, created_at
		FROM chat.message
		WHERE conversation_id = $1::uuid
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC
		LIMIT $2
	`, conversationID, limit, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(
			&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID,
			&m.Body, &m.MediaURLs, &m.MediaKinds, &m.DeliveredAt, &m.ReadAt,
			&m.Edited, &m.Deleted, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgChatRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (
			conversation_id, sender_id, recipient_id, body,
			media_urls, media_kinds, delivered_at, created_at
		) VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, $7, $8)
		RETURNING id::text
	`, m.ConversationID, m.SenderID, m.RecipientID, m.Body,
		m.MediaURLs, m.MediaKinds, m.DeliveredAt, m.CreatedAt,
	).Scan(&id)
	return id, err
}

func (r *PgChatRepository) GetMessage(ctx context.Context, id string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, recipient_id::text,
		       body, media_urls, media_kinds, delivered_at, read_at, edited, deleted, created_at
		FROM chat.message
		WHERE id = $1::uuid
	`, id).Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID,
		&m.Body, &m.MediaURLs, &m.MediaKinds, &m.DeliveredAt, &m.ReadAt,
		&m.Edited, &m.Deleted, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) UpdateMessageBody(ctx context.Context, id, body string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET body = $2, edited = TRUE
		WHERE id = $1::uuid AND NOT deleted
	`, id, body)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgChatRepository) SoftDeleteMessage(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET body = '', media_urls = '{}', media_kinds = '{}', deleted = TRUE
		WHERE id = $1::uuid
	`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgChatRepository) MarkConversationRead(ctx context.Context, conversationID, recipientID string, at time.Time) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET read_at = $3
		WHERE conversation_id = $1::uuid AND recipient_id = $2::uuid AND read_at IS NULL
	`, conversationID, recipientID, at)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) TouchConversation(ctx context.Context, conversationID string, at time.Time, preview, senderID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.conversation
		SET last_message_at = $2, last_message_preview = $3, last_sender_id = $4::uuid
		WHERE id = $1::uuid
	`, conversationID, at, preview, senderID)
	return err
}
