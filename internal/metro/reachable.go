// internal/metro/reachable.go - 후보 역 수집
package metro

// GetReachableStationCds 미방문 물리 역을 노선별 역 하나씩으로 반환
// 같은 물리 역이 여러 노선에 있으면 현재 노선 쪽을 우선한다
func GetReachableStationCds(g *Graph, currentCd string, excludedGroupCds map[string]bool) []string {
	current, ok := g.Stations[currentCd]
	if !ok {
		return []string{}
	}

	byGroupCd := make(map[string]string)
	var groupOrder []string
	for _, cd := range g.stationOrder {
		station := g.Stations[cd]
		if station.StationCd == currentCd || excludedGroupCds[station.StationGCd] {
			continue
		}

		if _, exists := byGroupCd[station.StationGCd]; !exists {
			byGroupCd[station.StationGCd] = station.StationCd
			groupOrder = append(groupOrder, station.StationGCd)
		} else if station.LineCd == current.LineCd {
			byGroupCd[station.StationGCd] = station.StationCd
		}
	}

	result := make([]string, 0, len(groupOrder))
	for _, groupCd := range groupOrder {
		result = append(result, byGroupCd[groupCd])
	}
	return result
}
