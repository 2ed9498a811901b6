package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput tombstones a message on behalf of its sender.
type DeleteMessageInput struct {
	RequesterID string
	MessageID   string
}

// DeleteMessageUseCase soft-deletes: content and media are cleared, the row
// survives. The returned tombstone carries the recipient so callers can fan
// the deletion out to live connections.
type DeleteMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewDeleteMessageUseCase(repo repository.ChatRepository) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) (*chat.Message, error) {
	if in.RequesterID == "" || in.MessageID == "" {
		return nil, fmt.Errorf("requester and message id are required")
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := msg.SoftDelete(in.RequesterID); err != nil {
		return nil, err
	}

	if err := uc.Repo.SoftDeleteMessage(ctx, msg.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
