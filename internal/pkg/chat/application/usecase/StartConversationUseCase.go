package usecase

import (
	"context"
	"fmt"
	"time"

	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
	social "socialite/internal/repository/port"
)

// StartConversationInput opens (or returns) the conversation between the
// requester and the recipient.
type StartConversationInput struct {
	RequesterID string
	RecipientID string
}

// StartConversationUseCase ensures exactly one conversation per pair exists.
// Both participants racing to start the same conversation converge on one row
// via the repository's pair constraint.
type StartConversationUseCase struct {
	Repo    repository.ChatRepository
	Friends social.FriendGraph
}

func NewStartConversationUseCase(repo repository.ChatRepository, friends social.FriendGraph) *StartConversationUseCase {
	return &StartConversationUseCase{Repo: repo, Friends: friends}
}

func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (*chat.Conversation, error) {
	if in.RequesterID == "" || in.RecipientID == "" {
		return nil, fmt.Errorf("requester and recipient are required")
	}
	if in.RequesterID == in.RecipientID {
		return nil, chat.ErrSelfConversation
	}

	friends, err := uc.Friends.AreMutualFriends(ctx, in.RequesterID, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !friends {
		return nil, chat.ErrNotFriends
	}

	userA, userB := chat.PairKey(in.RequesterID, in.RecipientID)
	conv, err := uc.Repo.EnsureConversation(ctx, userA, userB, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
