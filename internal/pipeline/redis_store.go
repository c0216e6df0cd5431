package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/scooter7/credo-etl/pkg/errors"
	"github.com/scooter7/credo-etl/pkg/redis"
)

// SnapshotCache 会话快照缓存（pkg/redis.Client 实现）
type SnapshotCache interface {
	SetSession(ctx context.Context, id string, data []byte, ttl time.Duration) error
	GetSession(ctx context.Context, id string) ([]byte, error)
	DeleteSession(ctx context.Context, id string) error
}

// RedisStore 基于 Redis 的会话存储，多实例部署时共享会话
//
// Redis 无法区分"从未创建"与"TTL 到期"，两者都返回 ErrSessionNotFound。
type RedisStore struct {
	cache SnapshotCache
	ttl   time.Duration
}

// NewRedisStore 创建 Redis 会话存储；ttl <= 0 时使用 DefaultSessionTTL
func NewRedisStore(cache SnapshotCache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{cache: cache, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.cache.GetSession(ctx, id)
	if errors.Is(err, redis.ErrCacheMiss) {
		return nil, pkgerrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话缓存失败: %w", err)
	}
	return decodeSession(data)
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	if err := r.cache.SetSession(ctx, s.ID, data, r.ttl); err != nil {
		return fmt.Errorf("写入会话缓存失败: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.DeleteSession(ctx, id)
}
