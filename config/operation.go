package config

import (
	"fmt"
	"time"
)

// SessionDate 세션 날짜 계산 (설정된 시간대 기준, YYYY-MM-DD)
// DayStartHour 이전 시각은 전날 세션에 속한다. 예: 04시 기준이면 새벽 1:30은 전날
func (c *Config) SessionDate(now time.Time) string {
	local := c.localize(now)
	if local.Hour() < c.DayStartHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format("2006-01-02")
}

// NextRollover 다음 세션 날짜가 시작되는 시각
func (c *Config) NextRollover(now time.Time) time.Time {
	local := c.localize(now)
	todayStart := time.Date(local.Year(), local.Month(), local.Day(),
		c.DayStartHour, 0, 0, 0, local.Location())

	if local.Before(todayStart) {
		return todayStart
	}
	return todayStart.AddDate(0, 0, 1)
}

// GetDayBoundaryString 세션 날짜 기준을 문자열로 반환
func (c *Config) GetDayBoundaryString() string {
	return fmt.Sprintf("%02d:00 (%s)", c.DayStartHour, c.Timezone)
}

func (c *Config) localize(t time.Time) time.Time {
	if c.Location != nil {
		return t.In(c.Location)
	}
	return t
}
