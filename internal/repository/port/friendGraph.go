package repository

import "context"

// FriendGraph answers friendship questions against the externally-managed
// friend graph. Messaging requires mutual friendship and checks it on every
// write; results are never cached here, so a removed friendship takes effect
// immediately.
type FriendGraph interface {
	AreMutualFriends(ctx context.Context, userA, userB string) (bool, error)
}
