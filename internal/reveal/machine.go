// internal/reveal/machine.go - 목적지 공개 연출 상태 머신
package reveal

import (
	"sync"
	"time"
)

// Phase 공개 연출 단계
type Phase string

const (
	PhaseHidden   Phase = "hidden"   // 탭 대기
	PhaseRolling  Phase = "rolling"  // 주사위 굴림
	PhaseBursting Phase = "bursting" // 주사위 터짐
	PhaseRoulette Phase = "roulette" // 역명 룰렛
	PhaseRevealed Phase = "revealed" // 공개 완료
)

const (
	tickCycles     = 10
	rollSettle     = 800 * time.Millisecond
	burstDuration  = 600 * time.Millisecond
	rouletteSettle = 300 * time.Millisecond
)

func rollInterval(count int) time.Duration     { return time.Duration(80+count*30) * time.Millisecond }
func rouletteInterval(count int) time.Duration { return time.Duration(60+count*30) * time.Millisecond }

// Timer 예약된 콜백 핸들
type Timer interface {
	Stop() bool
}

// Clock 타이머 추상화
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock time.AfterFunc 기반 Clock
type SystemClock struct{}

// AfterFunc time.AfterFunc 위임
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Hooks 상태 변화 알림 (모두 선택)
type Hooks struct {
	OnPhase    func(Phase)
	OnFaces    func([]int)
	OnName     func(string)
	OnRevealed func(faces []int)
}

// Target 공개할 목적지
type Target struct {
	RideCount int                        // 경로의 ride 단계 수 (주사위 합계)
	FinalName string                     // 최종 공개할 역명
	Names     func(diceSum int) []string // 룰렛 후보
}

// Machine hidden → rolling → bursting → roulette → revealed
// 라우팅 코어와 독립적이며 타이머에 의해서만 진행된다
type Machine struct {
	mu     sync.Mutex
	clock  Clock
	rand   Rand
	hooks  Hooks
	target Target

	phase     Phase
	faces     []int
	name      string
	names     []string
	diceCount int
	count     int
	timer     Timer
	gen       int // Cancel/Start 이후 오래된 타이머 무시용
}

// NewMachine 상태 머신 생성 (hidden 상태)
func NewMachine(clock Clock, r Rand, hooks Hooks) *Machine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Machine{
		clock: clock,
		rand:  r,
		hooks: hooks,
		phase: PhaseHidden,
		faces: []int{1, 4},
	}
}

// Phase 현재 단계
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Faces 현재 주사위 눈
func (m *Machine) Faces() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.faces...)
}

// Name 룰렛에 표시 중인 역명
func (m *Machine) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Restore 이미 공개된 목적지 복원 (연출 없음)
func (m *Machine) Restore(faces []int, finalName string) {
	m.mu.Lock()
	m.stopLocked()
	m.phase = PhaseRevealed
	if len(faces) > 0 {
		m.faces = append([]int(nil), faces...)
	}
	m.name = finalName
	m.mu.Unlock()
	m.emitPhase(PhaseRevealed)
}

// Cancel 진행 중인 연출을 멈추고 hidden으로
func (m *Machine) Cancel() {
	m.mu.Lock()
	m.stopLocked()
	m.phase = PhaseHidden
	m.mu.Unlock()
	m.emitPhase(PhaseHidden)
}

// Start 목적지 공개 연출 시작 (rolling부터)
func (m *Machine) Start(target Target) {
	m.mu.Lock()
	m.stopLocked()
	m.target = target
	m.phase = PhaseRolling
	m.count = 0
	m.diceCount = DecideDiceCount(target.RideCount, m.rand)
	gen := m.gen
	m.mu.Unlock()

	m.emitPhase(PhaseRolling)
	m.rollTick(gen)
}

func (m *Machine) stopLocked() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// schedule gen이 바뀌지 않았을 때만 f 실행
func (m *Machine) schedule(gen int, d time.Duration, f func(gen int)) {
	t := m.clock.AfterFunc(d, func() { f(gen) })
	m.mu.Lock()
	if m.gen == gen {
		m.timer = t
	}
	m.mu.Unlock()
}

func (m *Machine) current(gen int, phase Phase) bool {
	return m.gen == gen && m.phase == phase
}

func (m *Machine) rollTick(gen int) {
	m.mu.Lock()
	if !m.current(gen, PhaseRolling) {
		m.mu.Unlock()
		return
	}

	if m.count >= tickCycles {
		m.faces = SplitIntoDice(m.target.RideCount, m.diceCount, m.rand)
		faces := append([]int(nil), m.faces...)
		m.mu.Unlock()

		m.emitFaces(faces)
		m.schedule(gen, rollSettle, m.burst)
		return
	}

	m.faces = RandomFaces(m.diceCount, m.rand)
	faces := append([]int(nil), m.faces...)
	m.count++
	next := rollInterval(m.count)
	m.mu.Unlock()

	m.emitFaces(faces)
	m.schedule(gen, next, m.rollTick)
}

func (m *Machine) burst(gen int) {
	m.mu.Lock()
	if !m.current(gen, PhaseRolling) {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseBursting
	m.mu.Unlock()

	m.emitPhase(PhaseBursting)
	m.schedule(gen, burstDuration, m.startRoulette)
}

func (m *Machine) startRoulette(gen int) {
	m.mu.Lock()
	if !m.current(gen, PhaseBursting) {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseRoulette
	m.count = 0
	m.names = nil
	if m.target.Names != nil {
		m.names = m.target.Names(Sum(m.faces))
	}
	if len(m.names) == 0 {
		m.names = []string{m.target.FinalName}
	}
	m.mu.Unlock()

	m.emitPhase(PhaseRoulette)
	m.rouletteTick(gen)
}

func (m *Machine) rouletteTick(gen int) {
	m.mu.Lock()
	if !m.current(gen, PhaseRoulette) {
		m.mu.Unlock()
		return
	}

	if m.count >= tickCycles {
		m.name = m.target.FinalName
		name := m.name
		m.mu.Unlock()

		m.emitName(name)
		m.schedule(gen, rouletteSettle, m.finish)
		return
	}

	m.name = m.names[m.rand.IntN(len(m.names))]
	name := m.name
	m.count++
	next := rouletteInterval(m.count)
	m.mu.Unlock()

	m.emitName(name)
	m.schedule(gen, next, m.rouletteTick)
}

func (m *Machine) finish(gen int) {
	m.mu.Lock()
	if !m.current(gen, PhaseRoulette) {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseRevealed
	m.timer = nil
	faces := append([]int(nil), m.faces...)
	m.mu.Unlock()

	m.emitPhase(PhaseRevealed)
	if m.hooks.OnRevealed != nil {
		m.hooks.OnRevealed(faces)
	}
}

func (m *Machine) emitPhase(p Phase) {
	if m.hooks.OnPhase != nil {
		m.hooks.OnPhase(p)
	}
}

func (m *Machine) emitFaces(faces []int) {
	if m.hooks.OnFaces != nil {
		m.hooks.OnFaces(faces)
	}
}

func (m *Machine) emitName(name string) {
	if m.hooks.OnName != nil {
		m.hooks.OnName(name)
	}
}

// InstantClock 대기 없이 즉시 콜백을 실행하는 Clock (시뮬레이션용)
type InstantClock struct{}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

// AfterFunc f를 즉시 실행
func (InstantClock) AfterFunc(_ time.Duration, f func()) Timer {
	f()
	return firedTimer{}
}
