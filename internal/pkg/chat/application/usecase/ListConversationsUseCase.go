package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	cache "socialite/internal/infrastructure/cache/port"
	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
	social "socialite/internal/repository/port"
)

const summaryCacheTTL = 5 * time.Minute

// ListConversationsInput wraps the requesting user.
type ListConversationsInput struct {
	UserID string
}

// ConversationView is a conversation enriched with the counterpart's profile
// summary, ready for the conversation list screen.
type ConversationView struct {
	Conversation chat.Conversation  `json:"conversation"`
	Counterpart  social.UserSummary `json:"counterpart"`
}

// ListConversationsUseCase returns the user's conversations sorted by last
// activity, each carrying the other participant's summary. Summaries are
// cached briefly; a cache outage degrades to direct reads.
type ListConversationsUseCase struct {
	Repo  repository.ChatRepository
	Users social.UserRepository
	Cache cache.Cache
}

func NewListConversationsUseCase(repo repository.ChatRepository, users social.UserRepository, c cache.Cache) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Users: users, Cache: c}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]ConversationView, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	convs, err := uc.Repo.ListConversations(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		counterpart := conv.Counterpart(in.UserID)
		summary, err := uc.counterpartSummary(ctx, counterpart)
		if err != nil {
			// A missing or unreadable profile should not hide the thread.
			log.Printf("conversation list: summary for %s unavailable: %v", counterpart, err)
			summary = &social.UserSummary{ID: counterpart}
		}
		views = append(views, ConversationView{Conversation: conv, Counterpart: *summary})
	}
	return views, nil
}

func (uc *ListConversationsUseCase) counterpartSummary(ctx context.Context, userID string) (*social.UserSummary, error) {
	key := "user:summary:" + userID

	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, key); err == nil {
			var s social.UserSummary
			if json.Unmarshal([]byte(raw), &s) == nil {
				return &s, nil
			}
		}
	}

	summary, err := uc.Users.GetSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if uc.Cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := uc.Cache.Set(ctx, key, string(raw), summaryCacheTTL); err != nil {
				log.Printf("conversation list: summary cache write failed: %v", err)
			}
		}
	}
	return summary, nil
}
