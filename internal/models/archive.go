package models

// HopDocument Elasticsearch에 보관하는 이동 기록 1건
type HopDocument struct {
	SessionID   string  `json:"sessionId"`
	SessionDate string  `json:"sessionDate"`
	Seq         int     `json:"seq"` // 세션 내 순번 (0 = 출발역)
	StationCd   string  `json:"stationCd"`
	StationGCd  string  `json:"stationGCd"`
	StationName string  `json:"stationName"`
	LineCd      string  `json:"lineCd"`
	LineName    string  `json:"lineName"`
	Lon         float64 `json:"lon"`
	Lat         float64 `json:"lat"`
	Timestamp   string  `json:"@timestamp"`
}

// VisitStat 아카이브 기준 역 그룹별 방문 집계
type VisitStat struct {
	StationGCd  string `json:"stationGCd"`
	StationName string `json:"stationName"`
	Visits      int64  `json:"visits"`
	LastVisited string `json:"lastVisited,omitempty"`
}

// BulkResponse Elasticsearch 벌크 응답 구조체
type BulkResponse struct {
	Took   int64 `json:"took"`
	Errors bool  `json:"errors"`
	Items  []struct {
		Index struct {
			Index   string `json:"_index"`
			ID      string `json:"_id"`
			Version int    `json:"_version"`
			Result  string `json:"result"`
			Status  int    `json:"status"`
			Error   *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error,omitempty"`
		} `json:"index"`
	} `json:"items"`
}
