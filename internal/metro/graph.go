// internal/metro/graph.go - 노선 데이터로부터 그래프 구성
package metro

import (
	"station-hopper/internal/models"
)

// Graph 역 레지스트리, 인접 리스트, 환승 인덱스, 노선별 역 순서
// BuildGraph 이후에는 읽기 전용으로만 사용한다
type Graph struct {
	Stations     map[string]models.Station // stationCd → Station
	Adjacency    map[string][]string       // stationCd → 같은 노선의 인접 stationCd
	TransferMap  map[string][]string       // stationGCd → 해당 물리 역의 노선별 stationCd
	LineStations map[string][]string       // lineCd → 노선 순서대로 정렬된 stationCd

	// 데이터셋 순서 유지용 (맵 순회는 순서가 보장되지 않음)
	stationOrder []string
	lineOrder    []string
}

// BuildGraph 데이터셋으로부터 그래프 생성
// 데이터 정합성 검증은 하지 않는다 (잘못된 참조는 이후 조회 실패로 드러남)
func BuildGraph(data *models.RawMetroData) *Graph {
	g := &Graph{
		Stations:     make(map[string]models.Station),
		Adjacency:    make(map[string][]string),
		TransferMap:  make(map[string][]string),
		LineStations: make(map[string][]string),
	}

	for _, line := range data.Lines {
		orderedCds := make([]string, 0, len(line.Stations))

		for i, raw := range line.Stations {
			if _, exists := g.Stations[raw.StationCd]; !exists {
				g.stationOrder = append(g.stationOrder, raw.StationCd)
			}
			g.Stations[raw.StationCd] = models.Station{
				StationCd:     raw.StationCd,
				StationGCd:    raw.StationGCd,
				Name:          raw.Name,
				StationNumber: raw.StationNumber,
				NameKana:      raw.NameKana,
				NameEn:        raw.NameEn,
				LineCd:        line.LineCd,
				LineName:      line.Name,
				LineNameEn:    line.NameEn,
				LineColor:     line.Color,
				Index:         i,
				Lon:           raw.Lon,
				Lat:           raw.Lat,
			}
			orderedCds = append(orderedCds, raw.StationCd)
		}

		if _, exists := g.LineStations[line.LineCd]; !exists {
			g.lineOrder = append(g.lineOrder, line.LineCd)
		}
		g.LineStations[line.LineCd] = orderedCds

		// 인접 역 양방향 링크
		for _, conn := range line.Connections {
			g.Adjacency[conn.From] = append(g.Adjacency[conn.From], conn.To)
			g.Adjacency[conn.To] = append(g.Adjacency[conn.To], conn.From)
		}
	}

	// 환승 맵 (station_g_cd → 노선별 station_cd 목록)
	for _, transfer := range data.Transfers {
		cds := make([]string, 0, len(transfer.Stations))
		for _, s := range transfer.Stations {
			cds = append(cds, s.StationCd)
		}
		g.TransferMap[transfer.StationGCd] = cds
	}

	return g
}

// Station stationCd로 역 조회
func (g *Graph) Station(cd string) (models.Station, bool) {
	s, ok := g.Stations[cd]
	return s, ok
}

// StationCds 데이터셋 순서대로 모든 stationCd 반환
func (g *Graph) StationCds() []string {
	return g.stationOrder
}

// LineCds 데이터셋 순서대로 모든 lineCd 반환
func (g *Graph) LineCds() []string {
	return g.lineOrder
}

// IsTransferPoint 물리 역이 환승 인덱스에 등록되어 있는지 확인
func (g *Graph) IsTransferPoint(groupCd string) bool {
	_, ok := g.TransferMap[groupCd]
	return ok
}

// UniqueStationCount 물리 역(stationGCd) 개수
func (g *Graph) UniqueStationCount() int {
	groupCds := make(map[string]struct{})
	for _, s := range g.Stations {
		groupCds[s.StationGCd] = struct{}{}
	}
	return len(groupCds)
}

// Lines 노선 요약 목록
func (g *Graph) Lines() []models.LineInfo {
	lines := make([]models.LineInfo, 0, len(g.lineOrder))
	for _, lineCd := range g.lineOrder {
		cds := g.LineStations[lineCd]
		info := models.LineInfo{LineCd: lineCd, StationCount: len(cds)}
		if len(cds) > 0 {
			if s, ok := g.Stations[cds[0]]; ok {
				info.Name = s.LineName
				info.NameEn = s.LineNameEn
				info.Color = s.LineColor
			}
		}
		lines = append(lines, info)
	}
	return lines
}

// HasLine 노선 존재 여부
func (g *Graph) HasLine(lineCd string) bool {
	_, ok := g.LineStations[lineCd]
	return ok
}
