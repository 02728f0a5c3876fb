package kvstore

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"seedream-studio-server/modules/common/config"
)

// ErrNotFound - 키가 존재하지 않음
var ErrNotFound = errors.New("key not found")

// Store - 내구성 있는 키-값 영속화 인터페이스
// 쿼터 초과 시의 축소 정책은 저장소가 아니라 쓰기 경로(히스토리 스토어)가 가진다.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// RedisStore - Redis 기반 Store 구현
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore - Redis 연결 생성 및 확인
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	log.Printf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	// TLS 설정 (InsecureSkipVerify 추가)
	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // Render.com Redis용
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// 연결 테스트
	ctx, cancelFn := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFn()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis ping failed: %v", err)
		return nil, err
	}

	log.Println("✅ Redis connected successfully")
	return &RedisStore{client: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// IsQuotaExceeded - 저장 용량 초과로 인한 쓰기 실패 여부
// Redis는 maxmemory 도달 시 "OOM command not allowed ..." 에러를 반환한다.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "oom") ||
		strings.Contains(msg, "maxmemory") ||
		strings.Contains(msg, "quota")
}
