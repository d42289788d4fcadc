package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnv 환경변수 값을 가져오거나 기본값 반환
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv 환경변수에서 정수값을 가져오거나 기본값 반환
func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("환경변수 %s 값이 올바르지 않습니다 ('%s'). 기본값 %d를 사용합니다.", key, value, defaultValue)
	}
	return defaultValue
}

// getUint64Env 환경변수에서 부호 없는 정수값을 가져오거나 기본값 반환
func getUint64Env(key string, defaultValue uint64) uint64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
		log.Printf("환경변수 %s 값이 올바르지 않습니다 ('%s'). 기본값 %d를 사용합니다.", key, value, defaultValue)
	}
	return defaultValue
}

// getBoolEnv 환경변수에서 불린값을 가져오거나 기본값 반환
func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Printf("환경변수 %s 값이 올바르지 않습니다 ('%s'). 기본값 %t를 사용합니다.", key, value, defaultValue)
	}
	return defaultValue
}

// getDurationHours 시간 단위 환경변수를 Duration으로 변환
func getDurationHours(key string, defaultHours int) time.Duration {
	return time.Duration(getIntEnv(key, defaultHours)) * time.Hour
}

// maskSensitive 민감한 정보 마스킹
func maskSensitive(value string) string {
	if len(value) <= 4 {
		return "***"
	}
	return value[:2] + "***" + value[len(value)-2:]
}
