// internal/metro/distance.go - 역 간 거리 계산
package metro

// GetHopCount 같은 노선 위 두 역 사이의 역 수
// 노선이 다르거나 역이 없으면 false
func GetHopCount(g *Graph, fromCd, toCd string) (int, bool) {
	from, ok1 := g.Stations[fromCd]
	to, ok2 := g.Stations[toCd]
	if !ok1 || !ok2 || from.LineCd != to.LineCd {
		return 0, false
	}
	d := to.Index - from.Index
	if d < 0 {
		d = -d
	}
	return d, true
}

// bfsItem BFS 큐 항목 (역, 사용한 환승 횟수)
type bfsItem struct {
	cd        string
	transfers int
}

// ComputeStationDistances 출발역에서 모든 역까지의 역 수 (환승 최대 1회)
//
// 운휴 노선의 역에서는 같은 노선 이동을 하지 않는다 (열차가 다니지 않음).
// 환승은 도보 이동이므로 운휴와 관계없이 허용한다.
// 두 번 이상 환승이 필요한 역은 결과에 포함되지 않는다.
func ComputeStationDistances(g *Graph, fromCd string, suspendedLineCds map[string]bool) map[string]int {
	dist0 := map[string]int{fromCd: 0} // 환승 0회로 도달
	dist1 := map[string]int{}          // 환승 1회로 도달

	queue := []bfsItem{{cd: fromCd, transfers: 0}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		distMap := dist0
		if item.transfers == 1 {
			distMap = dist1
		}
		currentDist := distMap[item.cd]

		station, ok := g.Stations[item.cd]
		if !ok {
			continue
		}

		if !suspendedLineCds[station.LineCd] {
			for _, adj := range g.Adjacency[item.cd] {
				if _, seen := distMap[adj]; !seen {
					distMap[adj] = currentDist + 1
					queue = append(queue, bfsItem{cd: adj, transfers: item.transfers})
				}
			}
		}

		// 0회 → 1회 환승만 허용
		if item.transfers == 0 {
			for _, tCd := range g.TransferMap[station.StationGCd] {
				if tCd == item.cd {
					continue
				}
				if _, seen := dist1[tCd]; !seen {
					dist1[tCd] = currentDist + 1
					queue = append(queue, bfsItem{cd: tCd, transfers: 1})
				}
			}
		}
	}

	result := make(map[string]int, len(dist0)+len(dist1))
	for cd, d := range dist0 {
		result[cd] = d
	}
	for cd, d := range dist1 {
		if existing, ok := result[cd]; !ok || d < existing {
			result[cd] = d
		}
	}
	return result
}
