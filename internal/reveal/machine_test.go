package reveal_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-hopper/internal/reveal"
)

// manualClock 테스트용 수동 진행 시계
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
	fired   []time.Duration
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) reveal.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	c.pending = append(c.pending, t)
	return t
}

// step 가장 먼저 예약된 타이머 하나 실행
func (c *manualClock) step() bool {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return false
	}
	t := c.pending[0]
	c.pending = c.pending[1:]
	if !t.stopped {
		c.fired = append(c.fired, t.d)
	}
	c.mu.Unlock()

	if !t.stopped {
		t.f()
	}
	return true
}

func (c *manualClock) runAll() {
	for c.step() {
	}
}

type recorder struct {
	phases   []reveal.Phase
	faces    [][]int
	names    []string
	revealed []int
}

func (r *recorder) hooks() reveal.Hooks {
	return reveal.Hooks{
		OnPhase:    func(p reveal.Phase) { r.phases = append(r.phases, p) },
		OnFaces:    func(f []int) { r.faces = append(r.faces, f) },
		OnName:     func(n string) { r.names = append(r.names, n) },
		OnRevealed: func(f []int) { r.revealed = f },
	}
}

func TestMachine_FullSequence(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	m := reveal.NewMachine(clock, seeded(10), rec.hooks())
	assert.Equal(t, reveal.PhaseHidden, m.Phase())

	var gotSum int
	m.Start(reveal.Target{
		RideCount: 5,
		FinalName: "Station X",
		Names: func(diceSum int) []string {
			gotSum = diceSum
			return []string{"Station P", "Station Q", "Station X"}
		},
	})
	assert.Equal(t, reveal.PhaseRolling, m.Phase())

	clock.runAll()

	assert.Equal(t, reveal.PhaseRevealed, m.Phase())
	assert.Equal(t, []reveal.Phase{
		reveal.PhaseRolling, reveal.PhaseBursting, reveal.PhaseRoulette, reveal.PhaseRevealed,
	}, rec.phases)

	// 임의의 눈 10회 + 최종 눈 1회
	require.Len(t, rec.faces, 11)
	final := rec.faces[10]
	assert.Equal(t, 5, reveal.Sum(final))
	assert.Equal(t, final, rec.revealed)
	assert.Equal(t, final, m.Faces())
	assert.Equal(t, 5, gotSum)

	// 임의의 역명 10회 + 최종 역명
	require.Len(t, rec.names, 11)
	assert.Equal(t, "Station X", rec.names[10])
	assert.Equal(t, "Station X", m.Name())
	for _, n := range rec.names[:10] {
		assert.Contains(t, []string{"Station P", "Station Q", "Station X"}, n)
	}

	// 굴림 10틱, 정착, 터짐, 룰렛 10틱, 정착
	expected := []time.Duration{}
	for i := 1; i <= 10; i++ {
		expected = append(expected, time.Duration(80+i*30)*time.Millisecond)
	}
	expected = append(expected, 800*time.Millisecond, 600*time.Millisecond)
	for i := 1; i <= 10; i++ {
		expected = append(expected, time.Duration(60+i*30)*time.Millisecond)
	}
	expected = append(expected, 300*time.Millisecond)
	assert.Equal(t, expected, clock.fired)
}

func TestMachine_LargeRideCountUsesThreeDice(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	m := reveal.NewMachine(clock, seeded(11), rec.hooks())

	m.Start(reveal.Target{RideCount: 15, FinalName: "Station Z"})
	clock.runAll()

	require.Len(t, rec.revealed, 3)
	assert.Equal(t, 15, reveal.Sum(rec.revealed))
	// 후보가 없으면 최종 역명만 돌린다
	for _, n := range rec.names {
		assert.Equal(t, "Station Z", n)
	}
}

func TestMachine_CancelStopsSequence(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	m := reveal.NewMachine(clock, seeded(12), rec.hooks())

	m.Start(reveal.Target{RideCount: 4, FinalName: "Station Y"})
	clock.step()
	clock.step()
	m.Cancel()
	clock.runAll()

	assert.Equal(t, reveal.PhaseHidden, m.Phase())
	assert.Nil(t, rec.revealed)
	assert.Equal(t, []reveal.Phase{reveal.PhaseRolling, reveal.PhaseHidden}, rec.phases)
}

func TestMachine_RestartIgnoresStaleTimers(t *testing.T) {
	clock := &manualClock{}
	revealedCount := 0
	m := reveal.NewMachine(clock, seeded(13), reveal.Hooks{
		OnRevealed: func([]int) { revealedCount++ },
	})

	m.Start(reveal.Target{RideCount: 3, FinalName: "Station One"})
	clock.step()
	m.Start(reveal.Target{RideCount: 6, FinalName: "Station Two"})
	clock.runAll()

	assert.Equal(t, 1, revealedCount)
	assert.Equal(t, 6, reveal.Sum(m.Faces()))
	assert.Equal(t, "Station Two", m.Name())
}

func TestMachine_Restore(t *testing.T) {
	rec := &recorder{}
	m := reveal.NewMachine(&manualClock{}, seeded(14), rec.hooks())

	m.Restore([]int{3, 4}, "Station R")

	assert.Equal(t, reveal.PhaseRevealed, m.Phase())
	assert.Equal(t, []int{3, 4}, m.Faces())
	assert.Equal(t, "Station R", m.Name())
	assert.Nil(t, rec.revealed)
}
