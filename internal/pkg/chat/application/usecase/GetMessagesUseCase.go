package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesInput carries parameters to fetch one page of history. Before,
// when non-nil, bounds the page to messages created strictly earlier.
type GetMessagesInput struct {
	ConversationID string
	RequesterID    string
	Limit          int
	Before         *time.Time
}

// GetMessagesUseCase returns a page of messages in ascending chronological
// order, refusing non-participants before any row is read.
type GetMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessagesUseCase(repo repository.ChatRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]chat.Message, error) {
	if in.ConversationID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("conversation id and requester are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID, in.Limit, in.Before)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
