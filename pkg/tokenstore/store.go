// Package tokenstore keeps the currently valid refresh token per user in
// Redis, so refresh tokens can be rotated and revoked server-side even
// though access tokens stay stateless.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenMismatch is returned when the presented refresh token is not the
// one currently stored for the user (rotated away, revoked or never issued).
var ErrTokenMismatch = errors.New("refresh token not recognized")

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(userID int) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

// Save records token as the only valid refresh token for the user.
func (s *Store) Save(ctx context.Context, userID int, token string) error {
	return s.rdb.Set(ctx, key(userID), token, s.ttl).Err()
}

// Verify checks that token is the refresh token currently on record.
func (s *Store) Verify(ctx context.Context, userID int, token string) error {
	stored, err := s.rdb.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return ErrTokenMismatch
	}
	if err != nil {
		return err
	}
	if stored != token {
		return ErrTokenMismatch
	}
	return nil
}

// Rotate replaces old with next, failing if old is not the stored token.
// The previous token stops being accepted as soon as the new one is stored.
func (s *Store) Rotate(ctx context.Context, userID int, old, next string) error {
	if err := s.Verify(ctx, userID, old); err != nil {
		return err
	}
	return s.Save(ctx, userID, next)
}

// Delete drops the stored refresh token, revoking the user's session.
func (s *Store) Delete(ctx context.Context, userID int) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}
