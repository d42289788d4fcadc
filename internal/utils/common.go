// internal/utils/common.go - 공용 헬퍼 함수 모음
package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StringHelpers 문자열 관련 헬퍼 함수들
type StringHelpers struct{}

var String StringHelpers

// MaskSensitive 민감한 정보 마스킹 (API 키, 비밀번호 등)
func (StringHelpers) MaskSensitive(value string, showStart, showEnd int) string {
	if len(value) <= showStart+showEnd {
		return strings.Repeat("*", len(value))
	}

	start := value[:showStart]
	end := value[len(value)-showEnd:]
	middle := strings.Repeat("*", len(value)-showStart-showEnd)

	return start + middle + end
}

// TimeHelpers 시간 관련 헬퍼 함수들
type TimeHelpers struct{}

var Time TimeHelpers

// FormatDuration 기간을 사용자 친화적 형식으로 변환
func (TimeHelpers) FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d초", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%d분", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		return fmt.Sprintf("%d시간 %d분", hours, minutes)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%d일 %d시간", days, hours)
}

// CalculateUptime 시작 시간부터 현재까지의 업타임 계산
func (TimeHelpers) CalculateUptime(startTime time.Time) string {
	if startTime.IsZero() {
		return "정보 없음"
	}
	return Time.FormatDuration(time.Since(startTime))
}

// SessionDate 해당 시간대 기준 날짜 (YYYY-MM-DD)
func (TimeHelpers) SessionDate(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return now.Format("2006-01-02")
}

// SliceHelpers 슬라이스 관련 헬퍼 함수들
type SliceHelpers struct{}

var Slice SliceHelpers

// ContainsString 문자열 슬라이스에 특정 문자열이 포함되어 있는지 확인
func (SliceHelpers) ContainsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// ToSet 문자열 슬라이스를 집합으로
func (SliceHelpers) ToSet(slice []string) map[string]bool {
	set := make(map[string]bool, len(slice))
	for _, item := range slice {
		set[item] = true
	}
	return set
}

// IDHelpers ID 생성 관련 헬퍼 함수들
type IDHelpers struct{}

var ID IDHelpers

// GenerateRequestID 요청 ID 생성
func (IDHelpers) GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// GenerateSessionID 세션 ID 생성
func (IDHelpers) GenerateSessionID() string {
	return "sess_" + uuid.NewString()
}
