// internal/picker/filters.go - 후보 축소 단계
package picker

import (
	"station-hopper/internal/metro"
	"station-hopper/internal/models"
)

// MaxRouteDistance 이보다 먼 후보는 제외 (BFS 역 수)
const MaxRouteDistance = 10

// pickContext 한 번의 선택 동안 공유되는 읽기 전용 입력
type pickContext struct {
	graph     *metro.Graph
	current   models.Station
	visited   map[string]bool
	history   []models.HistoryEntry
	suspended map[string]bool
	distances map[string]int
}

func newPickContext(
	g *metro.Graph,
	currentCd string,
	visited map[string]bool,
	history []models.HistoryEntry,
	suspended map[string]bool,
) *pickContext {
	return &pickContext{
		graph:     g,
		current:   g.Stations[currentCd],
		visited:   visited,
		history:   history,
		suspended: suspended,
		distances: metro.ComputeStationDistances(g, currentCd, suspended),
	}
}

// stage 후보를 줄이는 순수 함수
type stage func(candidates []string, pc *pickContext) []string

// narrow 단계를 순서대로 적용. 결과가 비면 이전 후보 유지
func narrow(candidates []string, pc *pickContext, stages ...stage) []string {
	for _, st := range stages {
		if next := st(candidates, pc); len(next) > 0 {
			candidates = next
		}
	}
	return candidates
}

func filterStations(candidates []string, g *metro.Graph, keep func(models.Station) bool) []string {
	out := make([]string, 0, len(candidates))
	for _, cd := range candidates {
		if s, ok := g.Stations[cd]; ok && keep(s) {
			out = append(out, cd)
		}
	}
	return out
}

// notSuspended 운휴 노선의 역 제외
func notSuspended(candidates []string, pc *pickContext) []string {
	if len(pc.suspended) == 0 {
		return candidates
	}
	return filterStations(candidates, pc.graph, func(s models.Station) bool {
		return !pc.suspended[s.LineCd]
	})
}

// oneTransferLines 현재 노선 + 현재 노선의 환승역에서 갈아탈 수 있는 노선 (운휴 제외)
func oneTransferLines(pc *pickContext) map[string]bool {
	lines := make(map[string]bool)
	if !pc.suspended[pc.current.LineCd] {
		lines[pc.current.LineCd] = true
	}
	for _, cd := range pc.graph.LineStations[pc.current.LineCd] {
		s, ok := pc.graph.Stations[cd]
		if !ok {
			continue
		}
		for _, tCd := range pc.graph.TransferMap[s.StationGCd] {
			if t, ok := pc.graph.Stations[tCd]; ok && !pc.suspended[t.LineCd] {
				lines[t.LineCd] = true
			}
		}
	}
	return lines
}

// withinOneTransfer 환승 1회 이내로 갈 수 있는 노선으로 한정
func withinOneTransfer(candidates []string, pc *pickContext) []string {
	lines := oneTransferLines(pc)
	return filterStations(candidates, pc.graph, func(s models.Station) bool {
		return lines[s.LineCd]
	})
}

// transfersAround 현재 역 기준 노선 아래/위 방향의 환승역 수
func transfersAround(pc *pickContext) (below, above int) {
	for _, cd := range pc.graph.LineStations[pc.current.LineCd] {
		s, ok := pc.graph.Stations[cd]
		if !ok || s.StationCd == pc.current.StationCd || !pc.graph.IsTransferPoint(s.StationGCd) {
			continue
		}
		if s.Index < pc.current.Index {
			below++
		} else if s.Index > pc.current.Index {
			above++
		}
	}
	return below, above
}

// firstMoveDirection 첫 이동은 같은 노선, 환승역이 많은 방향으로
// 노선 끝 막다른 방향으로 가는 것을 막는다
func firstMoveDirection(candidates []string, pc *pickContext) []string {
	if len(pc.history) > 1 {
		return candidates
	}

	sameLine := filterStations(candidates, pc.graph, func(s models.Station) bool {
		return s.LineCd == pc.current.LineCd
	})
	if len(sameLine) == 0 {
		return candidates
	}

	below, above := transfersAround(pc)
	var keep func(models.Station) bool
	switch {
	case above > below:
		keep = func(s models.Station) bool { return s.Index > pc.current.Index }
	case below > above:
		keep = func(s models.Station) bool { return s.Index < pc.current.Index }
	default:
		return sameLine
	}

	if directed := filterStations(sameLine, pc.graph, keep); len(directed) > 0 {
		return directed
	}
	return sameLine
}

// countSameLineStreak 최근 이력에서 현재 노선이 연속된 횟수 (출발역 제외)
func countSameLineStreak(g *metro.Graph, lineCd string, history []models.HistoryEntry) int {
	streak := 0
	for i := len(history) - 1; i >= 1; i-- {
		s, ok := g.Stations[history[i].StationCd]
		if !ok || s.LineCd != lineCd {
			break
		}
		streak++
	}
	return streak
}

// streakLimit 노선의 환승역 수에 따른 연속 상한
// 환승역이 적은 노선일수록 BFS 거리상 같은 노선이 유리해지므로 더 엄격하게
func streakLimit(g *metro.Graph, lineCd string) int {
	transferStations := 0
	for _, cd := range g.LineStations[lineCd] {
		if s, ok := g.Stations[cd]; ok && g.IsTransferPoint(s.StationGCd) {
			transferStations++
		}
	}
	switch {
	case transferStations <= 1:
		return 1
	case transferStations <= 3:
		return 2
	default:
		return 3
	}
}

// sameLineStreak 같은 노선 연속 제어
// 상한 도달 시 다른 노선 강제, 1회째면 같은 노선 강제 (2역은 탄 뒤 환승)
func sameLineStreak(candidates []string, pc *pickContext) []string {
	lineCd := pc.current.LineCd
	limit := streakLimit(pc.graph, lineCd)
	streak := countSameLineStreak(pc.graph, lineCd, pc.history)

	switch {
	case streak >= limit:
		return filterStations(candidates, pc.graph, func(s models.Station) bool {
			return s.LineCd != lineCd
		})
	case streak == 1 && limit >= 2:
		return filterStations(candidates, pc.graph, func(s models.Station) bool {
			return s.LineCd == lineCd
		})
	default:
		return candidates
	}
}

// nearEnough BFS 거리가 MaxRouteDistance 이하인 후보만
func nearEnough(candidates []string, pc *pickContext) []string {
	out := make([]string, 0, len(candidates))
	for _, cd := range candidates {
		if d, ok := pc.distances[cd]; ok && d <= MaxRouteDistance {
			out = append(out, cd)
		}
	}
	return out
}
