package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput replaces a message body on behalf of its sender.
type EditMessageInput struct {
	RequesterID string
	MessageID   string
	Body        string
}

// EditMessageUseCase applies the domain edit rules (sender-only, tombstones
// immutable, media untouched) and persists the new body.
type EditMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewEditMessageUseCase(repo repository.ChatRepository) *EditMessageUseCase {
	return &EditMessageUseCase{Repo: repo}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
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

	if err := msg.Edit(in.RequesterID, in.Body); err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateMessageBody(ctx, msg.ID, msg.Body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
