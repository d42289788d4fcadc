// internal/web/models/responses/network.go
package responses

import "station-hopper/internal/models"

// StationDetail 역 상세 (인접 역, 같은 물리 역의 환승 노선)
type StationDetail struct {
	Station   models.Station   `json:"station"`
	Adjacent  []models.Station `json:"adjacent"`
	Transfers []models.Station `json:"transfers"`
}

// RouteData 두 역 사이 경로
type RouteData struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Steps     []models.RouteStep `json:"steps"`
	RideCount int                `json:"rideCount"`
	Transfers int                `json:"transfers"`
}

// DistanceEntry 기준 역으로부터의 BFS 거리
type DistanceEntry struct {
	StationCd string `json:"stationCd"`
	Name      string `json:"name"`
	LineCd    string `json:"lineCd"`
	Distance  int    `json:"distance"`
}
