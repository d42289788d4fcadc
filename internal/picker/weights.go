// internal/picker/weights.go - 후보 가중치 계산
package picker

import (
	"math"

	"station-hopper/internal/models"
)

// unreachableDistance 거리 정보가 없는 후보의 거리
const unreachableDistance = 999

// Candidate 가중치가 매겨진 후보 역
type Candidate struct {
	Station models.Station
	Weight  float64
}

// routeDistWeight BFS 거리별 가중치. 3~6역을 최적으로, 너무 가깝거나 먼 곳을 억제
func routeDistWeight(dist int) float64 {
	switch {
	case dist <= 1:
		return 0.02
	case dist <= 2:
		return 0.5
	case dist <= 6:
		return 1.5
	case dist <= 9:
		return 0.8
	default:
		return 0.02
	}
}

type coord struct{ lon, lat float64 }

// scoreInputs 가중치 계산용 사전 집계
type scoreInputs struct {
	visitedLines   map[string]bool
	visitedPerLine map[string]int
	visitedCoords  []coord
	prevGroupCd    string
}

func collectScoreInputs(pc *pickContext) scoreInputs {
	in := scoreInputs{
		visitedLines:   make(map[string]bool),
		visitedPerLine: make(map[string]int),
	}

	if len(pc.history) >= 2 {
		in.prevGroupCd = pc.history[len(pc.history)-2].StationGCd
	}

	for _, entry := range pc.history {
		if s, ok := pc.graph.Stations[entry.StationCd]; ok {
			in.visitedLines[s.LineCd] = true
		}
	}

	for lineCd, cds := range pc.graph.LineStations {
		count := 0
		for _, cd := range cds {
			if s, ok := pc.graph.Stations[cd]; ok && pc.visited[s.StationGCd] {
				count++
			}
		}
		if count > 0 {
			in.visitedPerLine[lineCd] = count
		}
	}

	added := make(map[string]bool)
	for _, cd := range pc.graph.StationCds() {
		s := pc.graph.Stations[cd]
		if pc.visited[s.StationGCd] && !added[s.StationGCd] {
			added[s.StationGCd] = true
			in.visitedCoords = append(in.visitedCoords, coord{lon: s.Lon, lat: s.Lat})
		}
	}

	return in
}

// weight 후보 하나의 가중치 (곱셈 누적)
func (in scoreInputs) weight(pc *pickContext, station models.Station) float64 {
	// 직전 역으로 되돌아가기 금지
	if in.prevGroupCd != "" && station.StationGCd == in.prevGroupCd {
		return 0
	}

	w := 1.0

	dist, ok := pc.distances[station.StationCd]
	if !ok {
		dist = unreachableDistance
	}
	w *= routeDistWeight(dist)

	// 노선 다양성
	if !in.visitedLines[station.LineCd] {
		w *= 2.5
	}
	if n := in.visitedPerLine[station.LineCd]; n > 0 {
		w *= math.Pow(0.55, float64(n))
	}

	// 방문한 역에서 멀수록 우대
	if len(in.visitedCoords) > 0 {
		minDist := math.Inf(1)
		for _, vc := range in.visitedCoords {
			d := math.Hypot(station.Lon-vc.lon, station.Lat-vc.lat)
			if d < minDist {
				minDist = d
			}
		}
		w *= math.Min(0.7+minDist*20, 1.8)
	}

	// 방문한 인접 역 하나당 절반
	visitedNeighbors := 0
	for _, adjCd := range pc.graph.Adjacency[station.StationCd] {
		if adj, ok := pc.graph.Stations[adjCd]; ok && pc.visited[adj.StationGCd] {
			visitedNeighbors++
		}
	}
	if visitedNeighbors > 0 {
		w *= math.Pow(0.5, float64(visitedNeighbors))
	}

	return w
}

// scoreCandidates 후보별 가중치 계산
func scoreCandidates(pc *pickContext, candidates []string) []Candidate {
	in := collectScoreInputs(pc)
	out := make([]Candidate, 0, len(candidates))
	for _, cd := range candidates {
		station, ok := pc.graph.Stations[cd]
		if !ok {
			continue
		}
		out = append(out, Candidate{Station: station, Weight: in.weight(pc, station)})
	}
	return out
}

// weightedRandom 가중치 비례 선택. 가중치 합이 0 이하면 균등 선택
func weightedRandom(r Rand, candidates []Candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	total := 0.0
	for _, c := range candidates {
		total += c.Weight
	}
	if total <= 0 {
		return candidates[r.IntN(len(candidates))].Station.StationCd, true
	}

	remaining := r.Float64() * total
	last := ""
	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		last = c.Station.StationCd
		remaining -= c.Weight
		if remaining <= 0 {
			return c.Station.StationCd, true
		}
	}
	return last, true
}
