package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	revokedPrefix = "auth:revoked:"
	resetPrefix   = "auth:reset:"
)

// TokenStore 保存短期认证状态：已注销的令牌ID和密码重置令牌
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	// ConsumeResetToken 返回令牌对应的用户ID并删除令牌，未知或过期的令牌返回空字符串
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type RedisTokenStore struct {
	Client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{Client: client}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Client.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.Client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisTokenStore) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.Client.Set(ctx, resetPrefix+token, userID, ttl).Err()
}

func (s *RedisTokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	var get *redis.StringCmd
	_, err := s.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		get = p.Get(ctx, resetPrefix+token)
		p.Del(ctx, resetPrefix+token)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return get.Val(), nil
}
