// internal/picker/picker.go - 출발역 / 다음 목적역 선택
package picker

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"station-hopper/internal/metro"
	"station-hopper/internal/models"
)

// DefaultStartGroupCd 출발 허브 (우메다/히가시우메다/니시우메다)
const DefaultStartGroupCd = "1160214"

// ErrStartHubMissing 출발 허브가 환승 인덱스에 없음 (데이터셋 불일치)
var ErrStartHubMissing = errors.New("picker: start hub not found in transfer map")

// Rand 선택에 사용하는 난수원 (*rand.Rand 호환)
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// globalRand math/rand/v2 전역 함수 사용
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Option Picker 설정 옵션
type Option func(*Picker)

// WithRand 난수원 지정 (테스트/시뮬레이션용 시드 고정)
func WithRand(r Rand) Option {
	return func(p *Picker) {
		if r != nil {
			p.rand = r
		}
	}
}

// WithStartGroupCd 출발 허브 그룹 코드 지정
func WithStartGroupCd(groupCd string) Option {
	return func(p *Picker) {
		if groupCd != "" {
			p.startGroupCd = groupCd
		}
	}
}

// Picker 그래프 위에서 목적역을 고른다. 그래프는 읽기만 한다
type Picker struct {
	graph        *metro.Graph
	rand         Rand
	startGroupCd string
}

// NewPicker Picker 생성
func NewPicker(g *metro.Graph, opts ...Option) *Picker {
	p := &Picker{
		graph:        g,
		rand:         globalRand{},
		startGroupCd: DefaultStartGroupCd,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Graph 사용 중인 그래프
func (p *Picker) Graph() *metro.Graph {
	return p.graph
}

// Rand 사용 중인 난수원
func (p *Picker) Rand() Rand {
	return p.rand
}

// PickStartStation 출발 허브의 노선별 역 중 하나를 균등하게 선택
func (p *Picker) PickStartStation() (string, error) {
	cds := p.graph.TransferMap[p.startGroupCd]
	if len(cds) == 0 {
		return "", fmt.Errorf("%w: %s", ErrStartHubMissing, p.startGroupCd)
	}
	return cds[p.rand.IntN(len(cds))], nil
}

// PickNextStation 가중치 랜덤으로 다음 목적역 선택
//
// 후보가 하나도 없으면 ("", false). 각 필터는 후보를 비게 만들 경우 적용하지 않는다.
func (p *Picker) PickNextStation(
	currentCd string,
	visitedGroupCds map[string]bool,
	history []models.HistoryEntry,
	suspendedLineCds map[string]bool,
	pastVisitedGroupCds map[string]bool,
) (string, bool) {
	pc, candidates := p.candidates(currentCd, visitedGroupCds, history, suspendedLineCds, pastVisitedGroupCds)
	if len(candidates) == 0 {
		return "", false
	}
	return weightedRandom(p.rand, scoreCandidates(pc, candidates))
}

// Explain 필터를 거친 후보와 가중치 (디버깅/CLI용, 난수 미사용)
// PickNextStation과 같은 입력이면 같은 후보 집합을 돌려준다
func (p *Picker) Explain(
	currentCd string,
	visitedGroupCds map[string]bool,
	history []models.HistoryEntry,
	suspendedLineCds map[string]bool,
	pastVisitedGroupCds map[string]bool,
) []Candidate {
	pc, candidates := p.candidates(currentCd, visitedGroupCds, history, suspendedLineCds, pastVisitedGroupCds)
	if len(candidates) == 0 {
		return nil
	}
	return scoreCandidates(pc, candidates)
}

// candidates 제외 집합으로 도달 가능한 역을 구한 뒤 축소 단계를 적용
func (p *Picker) candidates(
	currentCd string,
	visitedGroupCds map[string]bool,
	history []models.HistoryEntry,
	suspendedLineCds map[string]bool,
	pastVisitedGroupCds map[string]bool,
) (*pickContext, []string) {
	excluded := visitedGroupCds
	if len(pastVisitedGroupCds) > 0 {
		excluded = make(map[string]bool, len(visitedGroupCds)+len(pastVisitedGroupCds))
		for cd := range visitedGroupCds {
			excluded[cd] = true
		}
		for cd := range pastVisitedGroupCds {
			excluded[cd] = true
		}
	}

	candidates := metro.GetReachableStationCds(p.graph, currentCd, excluded)
	if len(candidates) == 0 {
		return nil, nil
	}

	pc := newPickContext(p.graph, currentCd, visitedGroupCds, history, suspendedLineCds)
	return pc, narrow(candidates, pc,
		notSuspended,
		withinOneTransfer,
		firstMoveDirection,
		sameLineStreak,
		nearEnough,
	)
}
