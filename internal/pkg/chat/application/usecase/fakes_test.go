package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	cache "socialite/internal/infrastructure/cache/port"
	qport "socialite/internal/infrastructure/queue/port"
	chat "socialite/internal/pkg/chat/domain"
	repository "socialite/internal/pkg/chat/persistence/repository/port"
	social "socialite/internal/repository/port"
)

// memRepo is an in-memory ChatRepository for use case tests. It mirrors the
// Postgres adapter's contract: copies in, copies out, ErrNotFound on misses.
type memRepo struct {
	mu    sync.Mutex
	convs map[string]*chat.Conversation
	pairs map[string]string // "a|b" -> conversation id
	msgs  map[string]*chat.Message
	order []string // message ids in insertion order
	seq   int

	ensureErr error
	saveErr   error
	touchErr  error
}

var _ repository.ChatRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		convs: make(map[string]*chat.Conversation),
		pairs: make(map[string]string),
		msgs:  make(map[string]*chat.Message),
	}
}

func (r *memRepo) EnsureConversation(ctx context.Context, userA, userB string, now time.Time) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ensureErr != nil {
		return nil, r.ensureErr
	}
	key := userA + "|" + userB
	if id, ok := r.pairs[key]; ok {
		cp := *r.convs[id]
		return &cp, nil
	}
	r.seq++
	c := &chat.Conversation{
		ID:            fmt.Sprintf("conv-%d", r.seq),
		UserA:         userA,
		UserB:         userB,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	r.convs[c.ID] = c
	r.pairs[key] = c.ID
	cp := *c
	return &cp, nil
}

func (r *memRepo) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Conversation
	for _, c := range r.convs {
		if c.UserA == userID || c.UserB == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

func (r *memRepo) ListMessages(ctx context.Context, conversationID string, limit int, before *time.Time) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []chat.Message
	for _, id := range r.order {
		m := r.msgs[id]
		if m.ConversationID != conversationID {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, *m)
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *memRepo) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return "", r.saveErr
	}
	r.seq++
	m.ID = fmt.Sprintf("msg-%d", r.seq)
	cp := m
	r.msgs[m.ID] = &cp
	r.order = append(r.order, m.ID)
	return m.ID, nil
}

func (r *memRepo) GetMessage(ctx context.Context, id string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) UpdateMessageBody(ctx context.Context, id, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok || m.Deleted {
		return repository.ErrNotFound
	}
	m.Body = body
	m.Edited = true
	return nil
}

func (r *memRepo) SoftDeleteMessage(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Body = ""
	m.MediaURLs = nil
	m.MediaKinds = nil
	m.Deleted = true
	return nil
}

func (r *memRepo) MarkConversationRead(ctx context.Context, conversationID, recipientID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.RecipientID == recipientID && m.ReadAt == nil {
			t := at
			m.ReadAt = &t
			n++
		}
	}
	return n, nil
}

func (r *memRepo) TouchConversation(ctx context.Context, conversationID string, at time.Time, preview, senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	c, ok := r.convs[conversationID]
	if !ok {
		return repository.ErrNotFound
	}
	c.LastMessageAt = at
	c.LastMessagePreview = preview
	c.LastSenderID = senderID
	return nil
}

func (r *memRepo) conversationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.convs)
}

func (r *memRepo) messageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

// stubFriends answers every mutual-friendship query the same way.
type stubFriends struct {
	friends bool
	err     error
}

var _ social.FriendGraph = (*stubFriends)(nil)

func (s *stubFriends) AreMutualFriends(ctx context.Context, a, b string) (bool, error) {
	return s.friends, s.err
}

// memQueue records enqueued tasks.
type memQueue struct {
	mu    sync.Mutex
	tasks []qport.Task
	opts  []qport.EnqueueOption
	err   error
}

var _ qport.Client = (*memQueue)(nil)

func (q *memQueue) Enqueue(ctx context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, t)
	if len(opts) > 0 {
		q.opts = append(q.opts, opts[0])
	} else {
		q.opts = append(q.opts, qport.EnqueueOption{})
	}
	return fmt.Sprintf("task-%d", len(q.tasks)), nil
}

func (q *memQueue) Close() error { return nil }

func (q *memQueue) enqueued() []qport.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]qport.Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}

// memCache is a map-backed Cache; TTLs are ignored.
type memCache struct {
	mu     sync.Mutex
	values map[string]string
	counts map[string]int64
	err    error
}

var _ cache.Cache = (*memCache)(nil)

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string), counts: make(map[string]int64)}
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.values[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	c.counts[key]++
	return c.counts[key], nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return n, nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }
func (c *memCache) Close() error                   { return nil }

// stubUsers serves profile summaries and counts lookups so tests can observe
// cache hits.
type stubUsers struct {
	mu        sync.Mutex
	summaries map[string]social.UserSummary
	calls     int
}

var _ social.UserRepository = (*stubUsers)(nil)

func (s *stubUsers) GetSummary(ctx context.Context, userID string) (*social.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	sum, ok := s.summaries[userID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	cp := sum
	return &cp, nil
}

func (s *stubUsers) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
