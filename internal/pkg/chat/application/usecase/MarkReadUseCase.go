package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput stamps read-now on the requester's unread messages in the
// conversation.
type MarkReadInput struct {
	ConversationID string
	RequesterID    string
}

// MarkReadUseCase marks every message addressed to the requester without a
// read timestamp as read. Messages the requester sent are untouched.
type MarkReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkReadUseCase(repo repository.ChatRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) (int64, error) {
	if in.ConversationID == "" || in.RequesterID == "" {
		return 0, fmt.Errorf("conversation id and requester are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return 0, chat.ErrNotParticipant
	}

	n, err := uc.Repo.MarkConversationRead(ctx, in.ConversationID, in.RequesterID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}
