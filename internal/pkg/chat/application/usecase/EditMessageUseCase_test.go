package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

func seedMessage(t *testing.T, repo *memRepo, body string, media bool) string {
	t.Helper()
	conv, err := repo.EnsureConversation(context.Background(), "alice", "bob", time.Now().UTC())
	require.NoError(t, err)
	var urls, kinds []string
	if media {
		urls, kinds = []string{"https://cdn/p.jpg"}, []string{"image"}
	}
	m, err := chat.NewMessage(conv.ID, "alice", "bob", body, urls, kinds, time.Now().UTC())
	require.NoError(t, err)
	id, err := repo.SaveMessage(context.Background(), *m)
	require.NoError(t, err)
	return id
}

func TestEditMessagePersistsNewBody(t *testing.T) {
	repo := newMemRepo()
	id := seedMessage(t, repo, "original", true)
	uc := NewEditMessageUseCase(repo)

	msg, err := uc.Execute(context.Background(), EditMessageInput{
		RequesterID: "alice",
		MessageID:   id,
		Body:        "updated",
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", msg.Body)
	assert.True(t, msg.Edited)

	stored, err := repo.GetMessage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "updated", stored.Body)
	assert.True(t, stored.Edited)
	assert.Equal(t, []string{"https://cdn/p.jpg"}, stored.MediaURLs)
}

func TestEditMessageByNonSenderForbidden(t *testing.T) {
	repo := newMemRepo()
	id := seedMessage(t, repo, "original", false)
	uc := NewEditMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), EditMessageInput{
		RequesterID: "bob",
		MessageID:   id,
		Body:        "hijack",
	})
	assert.ErrorIs(t, err, chat.ErrNotSender)

	stored, err := repo.GetMessage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Body)
	assert.False(t, stored.Edited)
}

func TestEditDeletedMessageFails(t *testing.T) {
	repo := newMemRepo()
	id := seedMessage(t, repo, "original", false)
	require.NoError(t, repo.SoftDeleteMessage(context.Background(), id))
	uc := NewEditMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), EditMessageInput{
		RequesterID: "alice",
		MessageID:   id,
		Body:        "resurrect",
	})
	assert.ErrorIs(t, err, chat.ErrMessageDeleted)
}

func TestEditUnknownMessage(t *testing.T) {
	uc := NewEditMessageUseCase(newMemRepo())

	_, err := uc.Execute(context.Background(), EditMessageInput{
		RequesterID: "alice",
		MessageID:   "msg-missing",
		Body:        "x",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
