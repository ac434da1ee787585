package credential

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultRedisKeyPrefix = "credential:"

// RedisStore 以 Redis Hash 保存凭据：key = prefix+id，字段 name / data
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore 创建 Redis 凭据存储，prefix 为空时使用 "credential:"
func NewRedisStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger.With(zap.String("component", "credential_redis")),
	}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

// Put 写入凭据
func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	raw, err := encodeData(rec.Data)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key(rec.ID), "name", rec.Name, "data", raw).Err(); err != nil {
		return fmt.Errorf("redis hset credential: %w", err)
	}
	return nil
}

// Delete 删除凭据
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del credential: %w", err)
	}
	return nil
}

// GetCredentialData implements Resolver.
func (s *RedisStore) GetCredentialData(ctx context.Context, id string) (Record, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("redis hgetall credential %s: %w", id, err)
	}
	if len(fields) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	data, err := decodeData(fields["data"])
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Name: fields["name"], Data: data}, nil
}

// Ping 检查连接
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
