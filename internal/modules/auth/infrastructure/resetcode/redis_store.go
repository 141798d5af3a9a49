package resetcode

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhquang4309/social-be/internal/modules/auth/domain"
)

const keyPrefix = "pwreset:"

// RedisStore keeps password-reset codes in Redis with a TTL, so codes expire
// without any cleanup job and disappear on use.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Issue generates a 6-digit code for the email and stores it under TTL,
// replacing any previously issued code.
func (s *RedisStore) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.client.Set(ctx, keyPrefix+email, code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Consume verifies the code and deletes it on success. A missing, expired or
// mismatched code returns ErrInvalidResetCode.
func (s *RedisStore) Consume(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, keyPrefix+email).Result()
	if err == redis.Nil {
		return domain.ErrInvalidResetCode
	}
	if err != nil {
		return err
	}
	if stored != code {
		return domain.ErrInvalidResetCode
	}

	return s.client.Del(ctx, keyPrefix+email).Err()
}
