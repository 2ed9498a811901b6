package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	repository "socialite/internal/repository/port"
)

type PgFriendGraph struct {
	pool *pgxpool.Pool
}

func NewPgFriendGraph(pool *pgxpool.Pool) *PgFriendGraph {
	return &PgFriendGraph{pool: pool}
}

var _ repository.FriendGraph = (*PgFriendGraph)(nil)

// AreMutualFriends requires an accepted friendship edge in both directions.
func (r *PgFriendGraph) AreMutualFriends(ctx context.Context, userA, userB string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgFriendGraph: nil pool")
	}
	var mutual bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM app.friendship
			WHERE user_id = $1::uuid AND friend_id = $2::uuid AND status = 'accepted'
		) AND EXISTS (
			SELECT 1 FROM app.friendship
			WHERE user_id = $2::uuid AND friend_id = $1::uuid AND status = 'accepted'
		)
	`, userA, userB).Scan(&mutual)
	if err != nil {
		return false, err
	}
	return mutual, nil
}
