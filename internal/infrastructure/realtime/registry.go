package realtime

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// Registry tracks every live connection per user so events can be fanned out
// to all of a user's open tabs and devices. State is partitioned into shards
// keyed by user ID, so connect/disconnect churn on one user never serializes
// behind traffic on another.
//
// Entries are process-local and never persisted; a user with an empty
// connection set is removed entirely.
type Registry struct {
	shards [shardCount]*registryShard
}

type registryShard struct {
	mu    sync.RWMutex
	users map[string]map[string]*Connection // userID -> connID -> connection
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &registryShard{users: make(map[string]map[string]*Connection)}
	}
	return r
}

func (r *Registry) shardFor(userID string) *registryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// Register adds conn to the user's connection set and starts its write loop.
// Registering the same connection twice is a no-op.
func (r *Registry) Register(userID string, conn *Connection) {
	s := r.shardFor(userID)
	s.mu.Lock()
	set := s.users[userID]
	if set == nil {
		set = make(map[string]*Connection)
		s.users[userID] = set
	}
	if _, ok := set[conn.ID]; ok {
		s.mu.Unlock()
		return
	}
	set[conn.ID] = conn
	s.mu.Unlock()

	conn.Start()
}

// Unregister removes conn from the user's connection set. When the set
// becomes empty the user's entry is dropped so the map never accumulates
// stale users. Unregistering an unknown connection is a no-op.
func (r *Registry) Unregister(userID string, conn *Connection) {
	s := r.shardFor(userID)
	s.mu.Lock()
	if set, ok := s.users[userID]; ok {
		delete(set, conn.ID)
		if len(set) == 0 {
			delete(s.users, userID)
		}
	}
	s.mu.Unlock()
}

// Lookup returns a snapshot of the user's live connections. The returned
// slice is owned by the caller; an offline user yields an empty slice.
func (r *Registry) Lookup(userID string) []*Connection {
	s := r.shardFor(userID)
	s.mu.RLock()
	set := s.users[userID]
	conns := make([]*Connection, 0, len(set))
	for _, c := range set {
		conns = append(conns, c)
	}
	s.mu.RUnlock()
	return conns
}

// Online reports whether the user has at least one live connection.
func (r *Registry) Online(userID string) bool {
	s := r.shardFor(userID)
	s.mu.RLock()
	_, ok := s.users[userID]
	s.mu.RUnlock()
	return ok
}

// Close terminates every tracked connection and clears all shards. Used on
// server shutdown.
func (r *Registry) Close() {
	var conns []*Connection
	for _, s := range r.shards {
		s.mu.Lock()
		for _, set := range s.users {
			for _, c := range set {
				conns = append(conns, c)
			}
		}
		s.users = make(map[string]map[string]*Connection)
		s.mu.Unlock()
	}
	for _, c := range conns {
		c.Close(1001, "server shutdown")
	}
}
