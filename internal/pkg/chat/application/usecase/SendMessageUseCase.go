package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	qport "socialite/internal/infrastructure/queue/port"
	"socialite/internal/pkg/chat/application/task"
	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
	social "socialite/internal/repository/port"
)

// SendMessageInput carries the data needed to send a new message. MediaURLs
// and MediaKinds are parallel lists.
type SendMessageInput struct {
	SenderID    string
	RecipientID string
	Body        string
	MediaURLs   []string
	MediaKinds  []string
}

// SendMessageUseCase persists a message on the synchronous path. The order of
// checks matters: a failed friendship check must leave no conversation or
// message row behind, so validation and the friend check run before any
// write. The courtesy notification is a side effect that never fails the
// send.
type SendMessageUseCase struct {
	Repo    repository.ChatRepository
	Friends social.FriendGraph
	Queue   qport.Client // optional; nil disables notifications
}

func NewSendMessageUseCase(repo repository.ChatRepository, friends social.FriendGraph, queue qport.Client) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Friends: friends, Queue: queue}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.SenderID == "" || in.RecipientID == "" {
		return nil, fmt.Errorf("sender and recipient are required")
	}
	if in.SenderID == in.RecipientID {
		return nil, chat.ErrSelfConversation
	}
	if err := chat.ValidateContent(in.Body, in.MediaURLs, in.MediaKinds); err != nil {
		return nil, err
	}

	friends, err := uc.Friends.AreMutualFriends(ctx, in.SenderID, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !friends {
		return nil, chat.ErrNotFriends
	}

	now := time.Now().UTC()
	userA, userB := chat.PairKey(in.SenderID, in.RecipientID)
	conv, err := uc.Repo.EnsureConversation(ctx, userA, userB, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg, err := chat.NewMessage(conv.ID, in.SenderID, in.RecipientID, in.Body, in.MediaURLs, in.MediaKinds, now)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	if err := uc.Repo.TouchConversation(ctx, conv.ID, now, msg.Preview(), in.SenderID); err != nil {
		// The message is durable; a stale preview is tolerable.
		log.Printf("send message: touch conversation %s failed: %v", conv.ID, err)
	}

	if uc.Queue != nil {
		err := task.EnqueueNotifyMessage(ctx, uc.Queue, task.NotifyMessagePayload{
			RecipientID:    in.RecipientID,
			SenderID:       in.SenderID,
			ConversationID: conv.ID,
			MessageID:      msg.ID,
			Preview:        msg.Preview(),
		})
		if err != nil {
			log.Printf("send message: notification enqueue failed: %v", err)
		}
	}

	return msg, nil
}
