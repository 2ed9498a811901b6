package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	repository "socialite/internal/repository/port"
)

// ErrUserNotFound is returned when the referenced profile does not exist.
var ErrUserNotFound = errors.New("user repository: not found")

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) GetSummary(ctx context.Context, userID string) (*repository.UserSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var s repository.UserSummary
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, display_name, COALESCE(avatar_url, ''), COALESCE(location, '')
		FROM app.user
		WHERE id = $1::uuid
	`, userID).Scan(&s.ID, &s.DisplayName, &s.AvatarURL, &s.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
