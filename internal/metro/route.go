// internal/metro/route.go - 표시용 경로 탐색
package metro

import (
	"container/heap"

	"station-hopper/internal/models"
)

const (
	// TransferCost 환승 비용. 실제 노선 길이보다 충분히 커서 환승 횟수가 먼저 최소화된다
	TransferCost = 100
	// RideCost 같은 노선 인접 역 이동 비용
	RideCost = 1
)

type routeItem struct {
	cd   string
	cost int
}

// routePQ 비용 기준 최소 힙
type routePQ []routeItem

func (pq routePQ) Len() int            { return len(pq) }
func (pq routePQ) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq routePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *routePQ) Push(x interface{}) { *pq = append(*pq, x.(routeItem)) }
func (pq *routePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// FindRoute 환승 횟수를 최소화하고, 같은 환승 횟수면 이동 거리를 최소화하는 경로
// 출발역을 제외하고 목적지를 포함한 단계 목록을 반환한다. 경로가 없으면 빈 목록
func FindRoute(g *Graph, fromCd, toCd string, suspendedLineCds map[string]bool) []models.RouteStep {
	if fromCd == toCd {
		return []models.RouteStep{}
	}

	dist := map[string]int{fromCd: 0}
	prev := map[string]string{}

	pq := &routePQ{{cd: fromCd, cost: 0}}
	heap.Init(pq)

	relax := func(from, to string, cost int) {
		if d, ok := dist[to]; ok && cost >= d {
			return
		}
		dist[to] = cost
		prev[to] = from
		heap.Push(pq, routeItem{cd: to, cost: cost})
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(routeItem)
		if item.cd == toCd {
			break
		}
		if item.cost > dist[item.cd] {
			continue // 이미 더 짧은 경로로 처리됨
		}

		station, ok := g.Stations[item.cd]
		if !ok {
			continue
		}

		if !suspendedLineCds[station.LineCd] {
			for _, adj := range g.Adjacency[item.cd] {
				relax(item.cd, adj, item.cost+RideCost)
			}
		}

		for _, tCd := range g.TransferMap[station.StationGCd] {
			if tCd == item.cd {
				continue
			}
			relax(item.cd, tCd, item.cost+TransferCost)
		}
	}

	if _, reached := prev[toCd]; !reached {
		return []models.RouteStep{}
	}

	// 경로 복원 (출발역 제외)
	var path []string
	for node := toCd; node != fromCd; node = prev[node] {
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	steps := make([]models.RouteStep, 0, len(path))
	prevStation := g.Stations[fromCd]
	for _, cd := range path {
		s := g.Stations[cd]
		action := models.ActionRide
		if s.StationGCd == prevStation.StationGCd && s.LineCd != prevStation.LineCd {
			action = models.ActionTransfer
		}
		steps = append(steps, models.RouteStep{
			StationCd: s.StationCd,
			Name:      s.Name,
			LineCd:    s.LineCd,
			LineName:  s.LineName,
			LineColor: s.LineColor,
			Action:    action,
		})
		prevStation = s
	}

	// 목적지와 같은 물리 역에서의 환승은 불필요
	for len(steps) > 0 && steps[len(steps)-1].Action == models.ActionTransfer {
		steps = steps[:len(steps)-1]
	}

	return steps
}

// CountRides 경로에서 ride 단계 수
func CountRides(route []models.RouteStep) int {
	n := 0
	for _, step := range route {
		if step.Action == models.ActionRide {
			n++
		}
	}
	return n
}
