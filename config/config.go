package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// 실행 모드
const (
	ModeServer   = "server"
	ModeSimulate = "simulate"
)

// RedisConfig Redis 접속 설정
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int `validate:"min=0,max=15"`
	MaxRetries  int
	PoolSize    int `validate:"min=1"`
	IdleTimeout int // 초
	KeyPrefix   string
}

// Config 애플리케이션 설정 구조체
type Config struct {
	Mode         string `validate:"oneof=server simulate"`
	DatasetPath  string `validate:"required"`
	StartGroupCd string `validate:"required"`

	// 웹 서버
	ServerPort int `validate:"min=1,max=65535"`
	APIKey     string

	// 세션 저장소
	StoreBackend string `validate:"oneof=memory redis sqlite"`
	Redis        RedisConfig
	SQLitePath   string
	SessionTTL   time.Duration // 0이면 만료 없음

	// Elasticsearch 아카이브 (URL이 비어 있으면 비활성)
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	IndexName             string

	// 세션 날짜 기준
	Timezone     string `validate:"required"`
	DayStartHour int    `validate:"min=0,max=23"` // 이 시각 이전은 전날 세션
	Location     *time.Location

	// 시뮬레이션 모드
	SimulateSteps int `validate:"min=1"`
	SimulateSeed  uint64

	LogDebug bool
}

// LoadConfig .env와 환경변수로 설정을 로드 (실패 시 종료)
func LoadConfig() *Config {
	// .env 파일 로드 시도 (선택사항)
	if err := godotenv.Load(); err != nil {
		log.Println(".env 파일을 찾을 수 없습니다. 시스템 환경변수를 사용합니다.")
	} else {
		log.Println(".env 파일을 성공적으로 로드했습니다.")
	}

	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("설정 검증 실패: %v", err)
	}
	return cfg
}

// FromEnv 현재 환경변수로 설정 생성 후 검증
func FromEnv() (*Config, error) {
	cfg := &Config{
		Mode:         strings.ToLower(getEnv("MODE", ModeServer)),
		DatasetPath:  getEnv("DATASET_PATH", "data/osaka-metro.json"),
		StartGroupCd: getEnv("START_GROUP_CD", "1160214"),

		ServerPort: getIntEnv("SERVER_PORT", 3000),
		APIKey:     getEnv("API_KEY", ""),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", "memory")),
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getIntEnv("REDIS_DB", 0),
			MaxRetries:  getIntEnv("REDIS_MAX_RETRIES", 3),
			PoolSize:    getIntEnv("REDIS_POOL_SIZE", 10),
			IdleTimeout: getIntEnv("REDIS_IDLE_TIMEOUT", 300),
			KeyPrefix:   getEnv("REDIS_KEY_PREFIX", "hop:"),
		},
		SQLitePath: getEnv("SQLITE_PATH", "station-hopper.db"),
		SessionTTL: getDurationHours("SESSION_TTL_HOURS", 0),

		ElasticsearchURL:      getEnv("ELASTICSEARCH_URL", ""),
		ElasticsearchUsername: getEnv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPassword: getEnv("ELASTICSEARCH_PASSWORD", ""),
		IndexName:             getEnv("INDEX_NAME", "station-hops"),

		Timezone:     getEnv("TIMEZONE", "Asia/Tokyo"),
		DayStartHour: getIntEnv("DAY_START_HOUR", 0),

		SimulateSteps: getIntEnv("SIMULATE_STEPS", 20),
		SimulateSeed:  getUint64Env("SIMULATE_SEED", 0),

		LogDebug: getBoolEnv("LOG_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate 설정 유효성 검증 및 시간대 로드
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("설정 값 오류: %w", err)
	}

	if c.StoreBackend == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("STORE_BACKEND=sqlite 에는 SQLITE_PATH가 필요합니다")
	}
	if c.StoreBackend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("STORE_BACKEND=redis 에는 REDIS_ADDR이 필요합니다")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q 로드 실패: %w", c.Timezone, err)
	}
	c.Location = loc

	return nil
}

// ArchiveEnabled Elasticsearch 아카이브 사용 여부
func (c *Config) ArchiveEnabled() bool {
	return c.ElasticsearchURL != ""
}
