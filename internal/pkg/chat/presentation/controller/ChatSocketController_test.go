package controller

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialite/internal/infrastructure/realtime"
	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
)

// recorderTransport captures text frames written to a connection.
type recorderTransport struct {
	mu     sync.Mutex
	frames [][]byte
}

func (r *recorderTransport) WriteMessage(messageType int, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if messageType == websocket.TextMessage {
		cp := make([]byte, len(data))
		copy(cp, data)
		r.frames = append(r.frames, cp)
	}
	return nil
}

func (r *recorderTransport) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return nil
}

func (r *recorderTransport) SetWriteDeadline(t time.Time) error { return nil }
func (r *recorderTransport) Close() error                       { return nil }

func (r *recorderTransport) received() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.frames))
	copy(out, r.frames)
	return out
}

func (r *recorderTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// stubChatRepo serves a single message; every other repository method is
// unused by the gateway.
type stubChatRepo struct {
	repository.ChatRepository
	msg *chat.Message
	err error
}

func (s *stubChatRepo) GetMessage(ctx context.Context, id string) (*chat.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.msg
	return &cp, nil
}

func registerConn(reg *realtime.Registry, userID string) (*realtime.Connection, *recorderTransport) {
	rt := &recorderTransport{}
	conn := realtime.NewConnection(userID, rt)
	reg.Register(userID, conn)
	return conn, rt
}

func waitFrames(t *testing.T, rt *recorderTransport, n int) [][]byte {
	t.Helper()
	require.Eventually(t, func() bool { return rt.count() >= n }, time.Second, 5*time.Millisecond)
	return rt.received()
}

func decodeFrame(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestTypingRelayedToAllRecipientConnections(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	h := &ChatSocketController{registry: reg}

	sender, senderRT := registerConn(reg, "alice")
	_, bobRT1 := registerConn(reg, "bob")
	_, bobRT2 := registerConn(reg, "bob")

	h.handleTyping(sender, inboundFrame{
		Type:           "typing",
		ToUserID:       "bob",
		ConversationID: "conv-1",
		IsTyping:       true,
	})

	for _, rt := range []*recorderTransport{bobRT1, bobRT2} {
		frames := waitFrames(t, rt, 1)
		got := decodeFrame(t, frames[0])
		assert.Equal(t, "typing", got["type"])
		assert.Equal(t, "alice", got["from_user_id"])
		assert.Equal(t, "conv-1", got["conversation_id"])
		assert.Equal(t, true, got["is_typing"])
	}

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, senderRT.count())
}

func TestTypingToOfflineUserIsDropped(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	h := &ChatSocketController{registry: reg}
	sender, senderRT := registerConn(reg, "alice")

	h.handleTyping(sender, inboundFrame{
		Type:           "typing",
		ToUserID:       "offline-bob",
		ConversationID: "conv-1",
	})

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, senderRT.count())
}

func TestDirectMessageRelayedVerbatim(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	h := &ChatSocketController{registry: reg}

	sender, _ := registerConn(reg, "alice")
	_, bobRT := registerConn(reg, "bob")

	body := json.RawMessage(`{"id":"msg-9","body":"hi"}`)
	h.handleDirectMessage(sender, inboundFrame{
		Type:           "direct_message",
		ToUserID:       "bob",
		ConversationID: "conv-1",
		Message:        body,
	})

	frames := waitFrames(t, bobRT, 1)
	got := decodeFrame(t, frames[0])
	assert.Equal(t, "direct_message", got["type"])
	assert.Equal(t, "alice", got["from_user_id"])
	inner, ok := got["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "msg-9", inner["id"])
	assert.Equal(t, "hi", inner["body"])
}

func TestDirectMessageMissingFieldsGetsErrorFrame(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	h := &ChatSocketController{registry: reg}
	sender, senderRT := registerConn(reg, "alice")

	h.handleDirectMessage(sender, inboundFrame{Type: "direct_message"})

	frames := waitFrames(t, senderRT, 1)
	got := decodeFrame(t, frames[0])
	assert.Equal(t, "error", got["type"])
}

func TestMessageDeletedFanOutExcludesOrigin(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	msg := &chat.Message{
		ID:             "msg-1",
		ConversationID: "conv-1",
		SenderID:       "alice",
		RecipientID:    "bob",
		Deleted:        true,
	}
	h := &ChatSocketController{registry: reg, repo: &stubChatRepo{msg: msg}}

	origin, originRT := registerConn(reg, "alice")
	_, aliceOtherRT := registerConn(reg, "alice")
	_, bobRT1 := registerConn(reg, "bob")
	_, bobRT2 := registerConn(reg, "bob")
	_, strangerRT := registerConn(reg, "carol")

	h.handleMessageDeleted(origin, inboundFrame{
		Type: "message_deleted",
		// client-supplied target is ignored; recipient comes from the row
		ToUserID:  "carol",
		MessageID: "msg-1",
	})

	for _, rt := range []*recorderTransport{aliceOtherRT, bobRT1, bobRT2} {
		frames := waitFrames(t, rt, 1)
		got := decodeFrame(t, frames[0])
		assert.Equal(t, "message_deleted", got["type"])
		assert.Equal(t, "msg-1", got["message_id"])
		assert.Equal(t, "alice", got["from_user_id"])
		assert.Equal(t, "conv-1", got["conversation_id"])
	}

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, originRT.count())
	assert.Zero(t, strangerRT.count())
}

func TestMessageDeletedByNonSenderRefused(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	msg := &chat.Message{ID: "msg-1", ConversationID: "conv-1", SenderID: "alice", RecipientID: "bob"}
	h := &ChatSocketController{registry: reg, repo: &stubChatRepo{msg: msg}}

	mallory, malloryRT := registerConn(reg, "mallory")
	_, bobRT := registerConn(reg, "bob")

	h.handleMessageDeleted(mallory, inboundFrame{Type: "message_deleted", MessageID: "msg-1"})

	frames := waitFrames(t, malloryRT, 1)
	got := decodeFrame(t, frames[0])
	assert.Equal(t, "error", got["type"])

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, bobRT.count())
}

func TestMessageDeletedUnknownMessage(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	h := &ChatSocketController{registry: reg, repo: &stubChatRepo{err: repository.ErrNotFound}}

	sender, senderRT := registerConn(reg, "alice")
	h.handleMessageDeleted(sender, inboundFrame{Type: "message_deleted", MessageID: "msg-missing"})

	frames := waitFrames(t, senderRT, 1)
	got := decodeFrame(t, frames[0])
	assert.Equal(t, "error", got["type"])
}

func TestReadReceiptRelayedToRecipient(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	h := &ChatSocketController{registry: reg}

	sender, _ := registerConn(reg, "bob")
	_, aliceRT := registerConn(reg, "alice")

	h.handleReadReceipt(sender, inboundFrame{
		Type:           "read_receipt",
		ToUserID:       "alice",
		ConversationID: "conv-1",
		MessageIDs:     []string{"msg-1", "msg-2"},
	})

	frames := waitFrames(t, aliceRT, 1)
	got := decodeFrame(t, frames[0])
	assert.Equal(t, "read_receipt", got["type"])
	assert.Equal(t, "bob", got["from_user_id"])
	assert.Equal(t, []any{"msg-1", "msg-2"}, got["message_ids"])
}

func TestUnknownEventTypeGetsErrorFrame(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	h := &ChatSocketController{registry: reg}
	sender, senderRT := registerConn(reg, "alice")

	h.dispatch(sender, inboundFrame{Type: "selfie"})

	frames := waitFrames(t, senderRT, 1)
	got := decodeFrame(t, frames[0])
	assert.Equal(t, "error", got["type"])
	assert.Contains(t, got["error"], "selfie")
}

func TestBroadcastMessageDeletedFromRESTIncludesAllSenderConnections(t *testing.T) {
	reg := realtime.NewRegistry()
	defer reg.Close()
	msg := &chat.Message{ID: "msg-1", ConversationID: "conv-1", SenderID: "alice", RecipientID: "bob", Deleted: true}

	_, aliceRT1 := registerConn(reg, "alice")
	_, aliceRT2 := registerConn(reg, "alice")
	_, bobRT := registerConn(reg, "bob")

	// REST deletion has no originating websocket, so nothing is excluded.
	delivered := broadcastMessageDeleted(reg, msg, "")
	assert.Equal(t, 3, delivered)

	for _, rt := range []*recorderTransport{aliceRT1, aliceRT2, bobRT} {
		frames := waitFrames(t, rt, 1)
		got := decodeFrame(t, frames[0])
		assert.Equal(t, "message_deleted", got["type"])
	}
}
