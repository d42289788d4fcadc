package session

import (
	"context"

	"station-hopper/internal/metro"
	"station-hopper/internal/reveal"
)

// RevealPlan 클라이언트가 연출할 목적지 공개 정보
type RevealPlan struct {
	DestinationCd string   `json:"destinationCd"`
	FinalName     string   `json:"finalName"`
	RideCount     int      `json:"rideCount"`
	DiceFaces     []int    `json:"diceFaces"`
	RouletteNames []string `json:"rouletteNames"`
	Revealed      bool     `json:"revealed"`
}

// RevealPlan 대기 중인 목적지의 주사위 눈과 룰렛 후보
// 이미 공개된 목적지는 저장된 눈을 그대로 돌려준다
func (m *Manager) RevealPlan(ctx context.Context) (RevealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.active(ctx)
	if err != nil {
		return RevealPlan{}, err
	}
	if st.PendingNextCd == nil {
		return RevealPlan{}, ErrNoPendingStation
	}

	dest, _ := m.graph.Station(*st.PendingNextCd)
	rides := metro.CountRides(st.PendingRoute)
	plan := RevealPlan{
		DestinationCd: dest.StationCd,
		FinalName:     dest.Name,
		RideCount:     rides,
		Revealed:      st.DestinationRevealed,
	}

	r := m.picker.Rand()
	if st.DestinationRevealed && len(st.DiceFaces) > 0 {
		plan.DiceFaces = st.DiceFaces
	} else {
		plan.DiceFaces = reveal.SplitIntoDice(rides, reveal.DecideDiceCount(rides, r), r)
	}
	plan.RouletteNames = reveal.RouletteNames(m.graph, st.CurrentStationCd, dest.Name, reveal.Sum(plan.DiceFaces), r)
	return plan, nil
}

// RevealTarget 상태 머신에 넘길 공개 대상
func (m *Manager) RevealTarget(ctx context.Context) (reveal.Target, error) {
	plan, err := m.RevealPlan(ctx)
	if err != nil {
		return reveal.Target{}, err
	}

	m.mu.Lock()
	currentCd := m.state.CurrentStationCd
	m.mu.Unlock()

	r := m.picker.Rand()
	return reveal.Target{
		RideCount: plan.RideCount,
		FinalName: plan.FinalName,
		Names: func(diceSum int) []string {
			return reveal.RouletteNames(m.graph, currentCd, plan.FinalName, diceSum, r)
		},
	}, nil
}
