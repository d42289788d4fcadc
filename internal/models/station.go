// internal/models/station.go - 노선/역 데이터 모델
package models

// RawStation 데이터셋의 역 레코드 (노선별)
type RawStation struct {
	StationCd     string  `json:"station_cd" yaml:"station_cd"`         // 노선별 역 코드
	StationGCd    string  `json:"station_g_cd" yaml:"station_g_cd"`     // 물리 역 그룹 코드
	Name          string  `json:"name" yaml:"name"`                     // 역명
	StationNumber *string `json:"station_number" yaml:"station_number"` // 역 번호 (예: "M16")
	NameKana      *string `json:"name_kana" yaml:"name_kana"`
	NameEn        *string `json:"name_en" yaml:"name_en"`
	Lon           float64 `json:"lon" yaml:"lon"` // 경도
	Lat           float64 `json:"lat" yaml:"lat"` // 위도
}

// RawConnection 같은 노선 내 인접 역 쌍
type RawConnection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// RawLine 데이터셋의 노선 레코드
type RawLine struct {
	LineCd      string          `json:"line_cd" yaml:"line_cd"`
	Name        string          `json:"name" yaml:"name"`
	NameEn      *string         `json:"name_en" yaml:"name_en"`
	Color       string          `json:"color" yaml:"color"`
	Stations    []RawStation    `json:"stations" yaml:"stations"`       // 노선 순서대로 정렬된 역 목록
	Connections []RawConnection `json:"connections" yaml:"connections"` // 인접 역 쌍
}

// RawTransferEntry 환승 그룹 내 노선별 역
type RawTransferEntry struct {
	StationCd string `json:"station_cd" yaml:"station_cd"`
	LineCd    string `json:"line_cd" yaml:"line_cd"`
	Name      string `json:"name" yaml:"name"`
}

// RawTransfer 하나의 물리 역에 모인 노선별 역 목록
type RawTransfer struct {
	StationGCd string             `json:"station_g_cd" yaml:"station_g_cd"`
	Stations   []RawTransferEntry `json:"stations" yaml:"stations"`
}

// Company 운영 회사 메타데이터
type Company struct {
	CompanyCd string `json:"company_cd" yaml:"company_cd"`
	Name      string `json:"name" yaml:"name"`
}

// RawMetroData 데이터셋 전체 (그래프 빌더의 입력)
type RawMetroData struct {
	Company   Company       `json:"company" yaml:"company"`
	Lines     []RawLine     `json:"lines" yaml:"lines"`
	Transfers []RawTransfer `json:"transfers" yaml:"transfers"`
}

// Station 그래프에 등록된 노선별 역 노드 (생성 후 불변)
type Station struct {
	StationCd     string  `json:"stationCd"`
	StationGCd    string  `json:"stationGCd"`
	Name          string  `json:"name"`
	StationNumber *string `json:"stationNumber"`
	NameKana      *string `json:"nameKana"`
	NameEn        *string `json:"nameEn"`
	LineCd        string  `json:"lineCd"`
	LineName      string  `json:"lineName"`
	LineNameEn    *string `json:"lineNameEn"`
	LineColor     string  `json:"lineColor"`
	Index         int     `json:"index"` // 노선 내 0부터 시작하는 위치
	Lon           float64 `json:"lon"`
	Lat           float64 `json:"lat"`
}

// LineInfo 노선 요약 정보 (API 응답용)
type LineInfo struct {
	LineCd       string  `json:"lineCd"`
	Name         string  `json:"name"`
	NameEn       *string `json:"nameEn"`
	Color        string  `json:"color"`
	StationCount int     `json:"stationCount"`
}
