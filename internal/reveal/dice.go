// internal/reveal/dice.go - 주사위 눈 / 룰렛 후보 계산
package reveal

import (
	"station-hopper/internal/metro"
)

// Rand 주사위/룰렛용 난수원
type Rand interface {
	Float64() float64
	IntN(n int) int
}

const (
	minRouletteNames = 5
	// threeDiceChance 합계 12 이하일 때 주사위 3개가 나올 확률
	threeDiceChance = 0.15
)

// DecideDiceCount 주사위 개수. 13 이상은 반드시 3개, 그 외에는 일정 확률로 3개
func DecideDiceCount(total int, r Rand) int {
	if total > 12 {
		return 3
	}
	if r.Float64() < threeDiceChance {
		return 3
	}
	return 2
}

// SplitIntoDice 합계를 각 1~6인 주사위 count개로 무작위 분배
// 합계는 [count, 6*count] 범위로 보정된다
func SplitIntoDice(total, count int, r Rand) []int {
	between := func(lo, hi int) int { return lo + r.IntN(hi-lo+1) }

	if count == 3 {
		clamped := clamp(total, 3, 18)
		a := between(max(1, clamped-12), min(6, clamped-2))
		rest := clamped - a
		b := between(max(1, rest-6), min(6, rest-1))
		return []int{a, b, rest - b}
	}

	clamped := clamp(total, 2, 12)
	a := between(max(1, clamped-6), min(6, clamped-1))
	return []int{a, clamped - a}
}

// RandomFaces 굴리는 중 표시할 임의의 눈
func RandomFaces(count int, r Rand) []int {
	faces := make([]int, count)
	for i := range faces {
		faces[i] = r.IntN(6) + 1
	}
	return faces
}

// Sum 눈의 합
func Sum(faces []int) int {
	total := 0
	for _, f := range faces {
		total += f
	}
	return total
}

// RouletteNames 룰렛에 돌릴 역명 목록
// 현재 역에서 1~diceSum 역 거리의 역명 + 최종 역명, 5개 미만이면 임의의 역명으로 채운다
func RouletteNames(g *metro.Graph, currentCd, finalName string, diceSum int, r Rand) []string {
	distances := metro.ComputeStationDistances(g, currentCd, nil)

	seen := map[string]bool{}
	var names []string
	for _, cd := range g.StationCds() {
		d, ok := distances[cd]
		if !ok || d <= 0 || d > diceSum {
			continue
		}
		if name := g.Stations[cd].Name; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if !seen[finalName] {
		seen[finalName] = true
		names = append(names, finalName)
	}

	var others []string
	for _, cd := range g.StationCds() {
		if name := g.Stations[cd].Name; !seen[name] {
			others = append(others, name)
		}
	}
	for len(names) < minRouletteNames && len(others) > 0 {
		idx := r.IntN(len(others))
		picked := others[idx]
		others = append(others[:idx], others[idx+1:]...)
		if !seen[picked] {
			seen[picked] = true
			names = append(names, picked)
		}
	}

	return names
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
