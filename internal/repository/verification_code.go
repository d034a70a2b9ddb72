package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
)

// VerificationCodeRepository stores short-lived login codes. A stored code
// expires after its time to live and is destroyed by the read that consumes
// it, so a code can never authenticate twice.
type VerificationCodeRepository interface {
	Store(ctx context.Context, email string, code string) error
	Take(ctx context.Context, email string) (string, error)
}

type redisVerificationCodeRepository struct {
	client     *redis.Client
	timeToLive time.Duration
}

// NewRedisVerificationCodeRepository builds code repository on top of redis
func NewRedisVerificationCodeRepository(client *redis.Client, ttl time.Duration) VerificationCodeRepository {
	return &redisVerificationCodeRepository{client: client, timeToLive: ttl}
}

func (r *redisVerificationCodeRepository) Store(ctx context.Context, email string, code string) error {
	if err := r.client.Set(ctx, r.key(email), code, r.timeToLive).Err(); err != nil {
		return err
	}
	return nil
}

// Take returns the live code for email and deletes it atomically. Empty
// string means no code is pending.
func (r *redisVerificationCodeRepository) Take(ctx context.Context, email string) (string, error) {
	code, err := r.client.GetDel(ctx, r.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (r *redisVerificationCodeRepository) key(email string) string {
	return fmt.Sprintf("authcode:%s", email)
}
