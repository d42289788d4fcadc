// internal/web/models/responses/session.go
package responses

import "station-hopper/internal/models"

// SessionView 세션 상태와 화면 표시용 파생 정보
type SessionView struct {
	State              *models.PersistedState `json:"state"`
	CurrentStation     *models.Station        `json:"currentStation,omitempty"`
	PendingStation     *models.Station        `json:"pendingStation,omitempty"`
	RideCount          int                    `json:"rideCount"`
	ExcludePastVisited bool                   `json:"excludePastVisited"`
}

// SuspensionRequest 노선 운휴 토글 요청
type SuspensionRequest struct {
	LineCd string `json:"lineCd" validate:"required"`
}

// ExcludePastRequest 지난 방문 제외 설정 요청
type ExcludePastRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// RevealRequest 목적지 공개 확정 요청
type RevealRequest struct {
	DiceFaces []int `json:"diceFaces" validate:"required,min=2,max=3,dive,min=1,max=6"`
}
