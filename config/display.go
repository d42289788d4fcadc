package config

import (
	"log"
	"time"
)

// PrintConfig 현재 설정을 출력 (디버깅용)
func (c *Config) PrintConfig() {
	log.Println("=== 역 탐험 설정 ===")
	log.Printf("실행 모드: %s", c.Mode)
	log.Printf("데이터셋: %s", c.DatasetPath)
	log.Printf("출발 허브 그룹: %s", c.StartGroupCd)

	if c.Mode == ModeServer {
		c.printServerConfig()
	} else {
		c.printSimulateConfig()
	}

	c.printStoreConfig()
	c.printSessionDayConfig()
	c.printElasticsearchConfig()

	log.Println("====================================")
}

// printServerConfig 웹 서버 설정 출력
func (c *Config) printServerConfig() {
	log.Printf("=== 웹 서버 설정 ===")
	log.Printf("포트: %d", c.ServerPort)
	if c.APIKey != "" {
		log.Printf("API Key: %s", maskSensitive(c.APIKey))
	} else {
		log.Printf("API Key: 없음 (인증 비활성)")
	}
}

// printSimulateConfig 시뮬레이션 설정 출력
func (c *Config) printSimulateConfig() {
	log.Printf("=== 시뮬레이션 설정 ===")
	log.Printf("이동 횟수: %d", c.SimulateSteps)
	log.Printf("시드: %d", c.SimulateSeed)
}

// printStoreConfig 저장소 설정 출력
func (c *Config) printStoreConfig() {
	log.Printf("=== 저장소 설정 ===")
	log.Printf("백엔드: %s", c.StoreBackend)

	switch c.StoreBackend {
	case "redis":
		log.Printf("Redis 주소: %s", c.Redis.Addr)
		log.Printf("Redis DB: %d", c.Redis.DB)
		log.Printf("Redis 풀 크기: %d", c.Redis.PoolSize)
		log.Printf("Redis 키 접두사: %s", c.Redis.KeyPrefix)
		if c.Redis.Password != "" {
			log.Printf("Redis 비밀번호: %s", maskSensitive(c.Redis.Password))
		} else {
			log.Printf("Redis 비밀번호: 없음")
		}
	case "sqlite":
		log.Printf("SQLite 파일: %s", c.SQLitePath)
	}

	if c.SessionTTL > 0 {
		log.Printf("세션 보존 기간: %v", c.SessionTTL)
	} else {
		log.Printf("세션 보존 기간: 무제한")
	}
}

// printSessionDayConfig 세션 날짜 설정 출력
func (c *Config) printSessionDayConfig() {
	log.Printf("=== 세션 날짜 설정 ===")
	log.Printf("날짜 기준: %s", c.GetDayBoundaryString())

	now := time.Now()
	log.Printf("현재 세션 날짜: %s (다음 전환까지: %v)",
		c.SessionDate(now), c.NextRollover(now).Sub(now).Round(time.Minute))
}

// printElasticsearchConfig Elasticsearch 설정 출력
func (c *Config) printElasticsearchConfig() {
	log.Printf("=== Elasticsearch 설정 ===")
	if !c.ArchiveEnabled() {
		log.Printf("아카이브: 비활성")
		return
	}

	log.Printf("URL: %s", c.ElasticsearchURL)
	log.Printf("인덱스명: %s", c.IndexName)
	if c.ElasticsearchUsername != "" {
		log.Printf("사용자명: %s", c.ElasticsearchUsername)
		log.Printf("비밀번호: %s", maskSensitive(c.ElasticsearchPassword))
	} else {
		log.Printf("인증: 없음")
	}
}
