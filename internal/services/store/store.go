// Package store 세션 상태 저장용 키-값 저장소
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"station-hopper/internal/utils"
)

// 저장소 백엔드 종류
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// KVStore 문자열 키-값 저장소
// Get은 키가 없으면 ("", false, nil)을 반환한다
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Options 백엔드 생성 옵션
type Options struct {
	Backend    string
	Redis      RedisOptions
	SQLitePath string
}

// New 설정에 맞는 저장소 생성
// redis 연결에 실패하면 메모리 저장소로 대체한다
func New(ctx context.Context, opts Options, logger *utils.Logger) (KVStore, error) {
	switch opts.Backend {
	case "", BackendMemory:
		logger.Info("메모리 저장소 사용")
		return NewMemoryStore(), nil
	case BackendRedis:
		rs, err := NewRedisStore(ctx, opts.Redis)
		if err != nil {
			logger.Errorf("Redis 연결 실패, 메모리 저장소 사용: %v", err)
			return NewMemoryStore(), nil
		}
		logger.Infof("✅ Redis 저장소 초기화 완료 (%s, DB: %d)", opts.Redis.Addr, opts.Redis.DB)
		return rs, nil
	case BackendSQLite:
		ss, err := NewSQLiteStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Infof("✅ SQLite 저장소 초기화 완료 (%s)", opts.SQLitePath)
		return ss, nil
	default:
		return nil, fmt.Errorf("지원하지 않는 저장소: %s", opts.Backend)
	}
}

// filterSorted prefix로 시작하는 키만 정렬해서 반환
func filterSorted(keys []string, prefix string) []string {
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			result = append(result, k)
		}
	}
	sort.Strings(result)
	return result
}
