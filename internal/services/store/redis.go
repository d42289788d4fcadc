package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions Redis 접속 설정
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	IdleTimeout int           // 초
	KeyPrefix   string        // 모든 키 앞에 붙는 접두사
	TTL         time.Duration // 0이면 만료 없음
	TTLScope    string        // TTL을 적용할 키 접두사 (비어 있으면 모든 키)
}

// RedisStore Redis 저장소
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	ttlScope  string
}

// NewRedisStore Redis 저장소 생성 (Ping 실패 시 에러)
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Password:        opts.Password,
		DB:              opts.DB,
		MaxRetries:      opts.MaxRetries,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: time.Duration(opts.IdleTimeout) * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping 실패: %w", err)
	}

	return NewRedisStoreWithClient(client, opts), nil
}

// NewRedisStoreWithClient 기존 클라이언트로 저장소 생성 (접속 정보는 무시)
func NewRedisStoreWithClient(client *redis.Client, opts RedisOptions) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: opts.KeyPrefix,
		ttl:       opts.TTL,
		ttlScope:  opts.TTLScope,
	}
}

// ttlFor 키별 만료 시간. 범위 밖의 키(설정값 등)는 만료 없음
func (r *RedisStore) ttlFor(key string) time.Duration {
	if r.ttlScope != "" && !strings.HasPrefix(key, r.ttlScope) {
		return 0
	}
	return r.ttl
}

func (r *RedisStore) key(k string) string {
	return r.keyPrefix + k
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) Put(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttlFor(key)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.key(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	return filterSorted(keys, prefix), nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
