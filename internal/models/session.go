// internal/models/session.go - 세션 상태 모델
package models

// RouteAction 경로 단계의 동작
type RouteAction string

const (
	ActionRide     RouteAction = "ride"     // 같은 노선으로 이동
	ActionTransfer RouteAction = "transfer" // 같은 물리 역에서 노선 변경
)

// HistoryEntry 방문한 역 스냅샷 (방문 순서대로 추가만 됨)
type HistoryEntry struct {
	StationCd  string `json:"stationCd"`
	StationGCd string `json:"stationGCd"`
	Name       string `json:"name"`
	LineName   string `json:"lineName"`
	LineColor  string `json:"lineColor"`
	Timestamp  int64  `json:"timestamp"` // unix millis
}

// RouteStep 표시용 경로의 한 단계 (출발역 제외)
type RouteStep struct {
	StationCd string      `json:"stationCd"`
	Name      string      `json:"name"`
	LineCd    string      `json:"lineCd"`
	LineName  string      `json:"lineName"`
	LineColor string      `json:"lineColor"`
	Action    RouteAction `json:"action"`
}

// PersistedState 날짜별로 저장되는 세션 상태
type PersistedState struct {
	CurrentStationCd    string         `json:"currentStationCd"`
	VisitedGroupCds     []string       `json:"visitedGroupCds"`
	History             []HistoryEntry `json:"history"`
	PendingNextCd       *string        `json:"pendingNextCd"`
	PendingRoute        []RouteStep    `json:"pendingRoute"` // nil이면 목적지 없음
	SuspendedLineCds    []string       `json:"suspendedLineCds,omitempty"`
	DestinationRevealed bool           `json:"destinationRevealed,omitempty"`
	DiceFaces           []int          `json:"diceFaces,omitempty"`
	SessionDate         string         `json:"sessionDate,omitempty"` // "YYYY-MM-DD"
	Completed           bool           `json:"completed,omitempty"`
	SessionID           string         `json:"sessionId,omitempty"`
}

// PastDay 지난 날짜의 방문 기록
type PastDay struct {
	Date    string         `json:"date"`
	History []HistoryEntry `json:"history"`
}

// SessionStats 세션 진행 통계
type SessionStats struct {
	SessionDate   string `json:"sessionDate"`
	VisitedCount  int    `json:"visitedCount"`
	UniqueVisited int    `json:"uniqueVisited"`
	TotalStations int    `json:"totalStations"`
	Completed     bool   `json:"completed"`
}
