package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Redis (히스토리/테마 영속화)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Ark (Seedream 이미지 생성)
	ArkAPIKey string
	ArkAPIURL string

	// Nano (Gemini 이미지 생성)
	NanoAPIKey string
	NanoModel  string

	// 프롬프트 보강 (ChatGPT 호환 엔드포인트)
	ChatGPTBase   string
	ChatGPTAPIKey string

	// 인증
	AppPassword string

	// Supabase (업로드 스토리지)
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string
	SupabaseBucket         string

	// Server
	Port string

	// Resilient fetch 기본값
	FetchRetries int
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := true // 기본값
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	// FetchRetries 파싱
	fetchRetries := 2 // 기본값
	if retriesStr := os.Getenv("FETCH_RETRIES"); retriesStr != "" {
		if parsed, err := strconv.Atoi(retriesStr); err == nil && parsed >= 0 {
			fetchRetries = parsed
		}
	}

	globalConfig = &Config{
		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Ark (Seedream)
		ArkAPIKey: getEnv("ARK_API_KEY", ""),
		ArkAPIURL: getEnv("ARK_BASE", "https://ark.ap-southeast.bytepluses.com/api/v3/images/generations"),

		// Nano (Gemini)
		NanoAPIKey: getEnv("NANO_API_KEY", ""),
		NanoModel:  getEnv("NANO_MODEL", "gemini-2.5-flash-image-preview"),

		// 프롬프트 보강
		ChatGPTBase:   getEnv("CHATGPT_BASE", ""),
		ChatGPTAPIKey: getEnv("CHATGPT_API_KEY", ""),

		// 인증
		AppPassword: getEnv("APP_PASSWORD", ""),

		// Supabase
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),
		SupabaseBucket:         getEnv("SUPABASE_BUCKET", "uploads"),

		// Server
		Port: getEnv("PORT", "8080"),

		FetchRetries: fetchRetries,
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Ark: %s (key configured: %v)", globalConfig.ArkAPIURL, globalConfig.ArkAPIKey != "")
	log.Printf("   Nano: %s (key configured: %v)", globalConfig.NanoModel, globalConfig.NanoAPIKey != "")
	log.Printf("   Fetch retries: %d", globalConfig.FetchRetries)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
// 제공자 키는 각 서비스 초기화 시점에 개별 확인 (첫 사용 시 보고)
func (c *Config) validate() error {
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.ArkAPIKey == "" && c.NanoAPIKey == "" {
		return fmt.Errorf("at least one of ARK_API_KEY or NANO_API_KEY is required")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
