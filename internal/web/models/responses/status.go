// internal/web/models/responses/status.go
package responses

import "time"

// StatusData 시스템 상태
type StatusData struct {
	Status       string    `json:"status"`
	Uptime       string    `json:"uptime"`
	StartTime    time.Time `json:"startTime"`
	Mode         string    `json:"mode"`
	SessionDate  string    `json:"sessionDate"`
	DayBoundary  string    `json:"dayBoundary"`
	NextRollover time.Time `json:"nextRollover"`
	MemoryUsage  string    `json:"memoryUsage"`
	Goroutines   int       `json:"goroutines"`
}

// HealthCheckResponse 헬스체크 응답
type HealthCheckResponse struct {
	BaseResponse
	Data HealthCheckData `json:"data"`
}

// HealthCheckData 헬스체크 데이터
type HealthCheckData struct {
	Status    string            `json:"status"`
	Uptime    string            `json:"uptime"`
	Dataset   DatasetInfo       `json:"dataset"`
	Store     string            `json:"store"`
	Archive   ArchiveInfo       `json:"archive"`
	Checks    map[string]string `json:"checks"`
	CheckedAt time.Time         `json:"checkedAt"`
}

// DatasetInfo 적재된 노선 데이터 규모
type DatasetInfo struct {
	Lines          int `json:"lines"`
	Stations       int `json:"stations"`
	UniqueStations int `json:"uniqueStations"`
}

// ArchiveInfo Elasticsearch 아카이브 상태
type ArchiveInfo struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	IndexName string `json:"indexName,omitempty"`
}
