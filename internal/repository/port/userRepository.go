package repository

import "context"

// UserSummary is the slice of a profile the messaging UI embeds next to a
// conversation: enough to render the counterpart without a second fetch.
type UserSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Location    string `json:"location"`
}

// UserRepository reads profile summaries from the identity store. Profile
// management itself belongs to another part of the application.
type UserRepository interface {
	GetSummary(ctx context.Context, userID string) (*UserSummary, error)
}
