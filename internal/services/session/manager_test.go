package session

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-hopper/internal/metro"
	"station-hopper/internal/metro/metrotest"
	"station-hopper/internal/models"
	"station-hopper/internal/picker"
	"station-hopper/internal/reveal"
	"station-hopper/internal/services/store"
	"station-hopper/internal/utils"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeArchiver struct {
	hops []models.HopDocument
	err  error
}

func (f *fakeArchiver) ArchiveHops(_ context.Context, hops []models.HopDocument) error {
	f.hops = append(f.hops, hops...)
	return f.err
}

func newManager(t *testing.T, data *models.RawMetroData, kv store.KVStore, seed uint64, opts ...Option) *Manager {
	t.Helper()
	g := metro.BuildGraph(data)
	p := picker.NewPicker(g, picker.WithRand(rand.New(rand.NewPCG(seed, seed*7+1))))
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewManager(p, kv, utils.NewDiscardLogger(), opts...)
}

// tinyHub A-a2 (L1), B (L2). A/B는 허브 그룹
func tinyHub() *models.RawMetroData {
	hub := map[string]string{"A": metrotest.HubGroupCd, "B": metrotest.HubGroupCd}
	return metrotest.Build(
		metrotest.LineSpec{LineCd: "L1", Name: "Line 1", Cds: []string{"A", "a2"}, Groups: hub, Lon: 135.5, Lat: 34.7, DLon: 0.01},
		metrotest.LineSpec{LineCd: "L2", Name: "Line 2", Cds: []string{"B"}, Groups: hub, Lon: 135.5, Lat: 34.7},
	)
}

func saveRaw(t *testing.T, kv store.KVStore, date string, st models.PersistedState) {
	t.Helper()
	data, err := json.Marshal(st)
	require.NoError(t, err)
	require.NoError(t, kv.Put(context.Background(), stateKey(date), string(data)))
}

func TestCurrent_StartsNewSessionAtHub(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	m := newManager(t, metrotest.ThreeLineHub(), kv, 1)

	st, err := m.Current(ctx)
	require.NoError(t, err)

	require.Len(t, st.History, 1)
	assert.Equal(t, metrotest.HubGroupCd, st.History[0].StationGCd)
	assert.Equal(t, []string{metrotest.HubGroupCd}, st.VisitedGroupCds)
	assert.Equal(t, "2026-03-01", st.SessionDate)
	assert.NotEmpty(t, st.SessionID)
	assert.Equal(t, fixedNow.UnixMilli(), st.History[0].Timestamp)
	require.NotNil(t, st.PendingNextCd)
	assert.NotEmpty(t, st.PendingRoute)

	_, ok, err := kv.Get(ctx, "eco-hop-state-2026-03-01")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCurrent_RerandomizesStartUntilRevealed(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	first, err := newManager(t, metrotest.ThreeLineHub(), kv, 1).Current(ctx)
	require.NoError(t, err)
	second, err := newManager(t, metrotest.ThreeLineHub(), kv, 2).Current(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestCurrent_RestoresRevealedSession(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	m := newManager(t, metrotest.ThreeLineHub(), kv, 1)
	_, err := m.Current(ctx)
	require.NoError(t, err)
	revealed, err := m.MarkRevealed(ctx, []int{2, 3})
	require.NoError(t, err)

	restored, err := newManager(t, metrotest.ThreeLineHub(), kv, 9).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, revealed.SessionID, restored.SessionID)
	assert.True(t, restored.DestinationRevealed)
	assert.Equal(t, []int{2, 3}, restored.DiceFaces)
}

func TestCurrent_LegacySessionGetsTodaysDate(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	saveRaw(t, kv, "2026-03-01", models.PersistedState{
		CurrentStationCd: "a5",
		VisitedGroupCds:  []string{metrotest.HubGroupCd, "G-a5"},
		History: []models.HistoryEntry{
			{StationCd: "A", StationGCd: metrotest.HubGroupCd},
			{StationCd: "a5", StationGCd: "G-a5"},
		},
	})

	st, err := newManager(t, metrotest.ThreeLineHub(), kv, 1).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a5", st.CurrentStationCd)
	assert.Equal(t, "2026-03-01", st.SessionDate)
}

func TestCurrent_RollsOverToNewDay(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	now := fixedNow
	m := newManager(t, metrotest.ThreeLineHub(), kv, 1, WithClock(func() time.Time { return now }))

	_, err := m.Current(ctx)
	require.NoError(t, err)
	_, err = m.MarkRevealed(ctx, []int{1, 2})
	require.NoError(t, err)
	yesterday, err := m.Go(ctx)
	require.NoError(t, err)

	now = fixedNow.Add(24 * time.Hour)
	today, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", today.SessionDate)
	assert.Len(t, today.History, 1)
	assert.NotEqual(t, yesterday.SessionID, today.SessionID)

	days, err := m.PastDays(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Len(t, days[0].History, 2)
}

func TestReset_AfterDayChangeKeepsPreviousDay(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	now := fixedNow
	m := newManager(t, metrotest.ThreeLineHub(), kv, 1, WithClock(func() time.Time { return now }))

	_, err := m.Current(ctx)
	require.NoError(t, err)
	_, err = m.MarkRevealed(ctx, []int{1, 2})
	require.NoError(t, err)
	_, err = m.Go(ctx)
	require.NoError(t, err)

	now = fixedNow.Add(24 * time.Hour)
	fresh, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", fresh.SessionDate)
	assert.Len(t, fresh.History, 1)

	days, err := m.PastDays(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Len(t, days[0].History, 2)
}

func TestCurrent_CorruptRecordStartsFresh(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Put(ctx, stateKey("2026-03-01"), "{not json"))

	st, err := newManager(t, metrotest.ThreeLineHub(), kv, 1).Current(ctx)
	require.NoError(t, err)
	assert.Len(t, st.History, 1)
}

func TestGo_MovesToPendingAndRepicks(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 3)

	start, err := m.Current(ctx)
	require.NoError(t, err)
	_, err = m.MarkRevealed(ctx, []int{1, 1})
	require.NoError(t, err)
	target := *start.PendingNextCd

	st, err := m.Go(ctx)
	require.NoError(t, err)

	assert.Equal(t, target, st.CurrentStationCd)
	require.Len(t, st.History, 2)
	assert.Equal(t, target, st.History[1].StationCd)
	assert.Len(t, st.VisitedGroupCds, 2)
	assert.False(t, st.DestinationRevealed)
	assert.Nil(t, st.DiceFaces)

	require.NotNil(t, st.PendingNextCd)
	next, _ := m.Graph().Station(*st.PendingNextCd)
	assert.NotContains(t, st.VisitedGroupCds, next.StationGCd)
}

func TestGo_ExhaustedNetwork(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, tinyHub(), store.NewMemoryStore(), 1)

	st, err := m.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.PendingNextCd)
	assert.Equal(t, "a2", *st.PendingNextCd)

	st, err = m.Go(ctx)
	require.NoError(t, err)
	assert.Nil(t, st.PendingNextCd)
	assert.Nil(t, st.PendingRoute)

	_, err = m.Go(ctx)
	assert.ErrorIs(t, err, ErrNoPendingStation)
	_, err = m.RevealPlan(ctx)
	assert.ErrorIs(t, err, ErrNoPendingStation)
}

func TestReroll_KeepsPositionClearsReveal(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 4)

	start, err := m.Current(ctx)
	require.NoError(t, err)
	_, err = m.MarkRevealed(ctx, []int{3, 3})
	require.NoError(t, err)

	st, err := m.Reroll(ctx)
	require.NoError(t, err)
	assert.Equal(t, start.CurrentStationCd, st.CurrentStationCd)
	assert.Equal(t, start.History, st.History)
	assert.False(t, st.DestinationRevealed)
	assert.NotNil(t, st.PendingNextCd)
}

func TestToggleSuspension(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 5)
	_, err := m.Current(ctx)
	require.NoError(t, err)

	_, err = m.ToggleSuspension(ctx, "L9")
	assert.ErrorIs(t, err, ErrUnknownLine)

	st, err := m.ToggleSuspension(ctx, "L2")
	require.NoError(t, err)
	assert.Equal(t, []string{"L2"}, st.SuspendedLineCds)
	require.NotNil(t, st.PendingNextCd)
	for _, step := range st.PendingRoute {
		if step.Action == models.ActionRide {
			assert.NotEqual(t, "L2", step.LineCd)
		}
	}

	st, err = m.ToggleSuspension(ctx, "L2")
	require.NoError(t, err)
	assert.Empty(t, st.SuspendedLineCds)
}

func TestFinish(t *testing.T) {
	ctx := context.Background()
	archive := &fakeArchiver{}
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 6, WithArchiver(archive))

	_, err := m.Current(ctx)
	require.NoError(t, err)
	_, err = m.Finish(ctx)
	assert.ErrorIs(t, err, ErrNothingToFinish)

	_, err = m.Go(ctx)
	require.NoError(t, err)
	st, err := m.Finish(ctx)
	require.NoError(t, err)

	assert.True(t, st.Completed)
	assert.Nil(t, st.PendingNextCd)
	assert.Nil(t, st.PendingRoute)
	assert.False(t, st.DestinationRevealed)

	require.Len(t, archive.hops, 2)
	assert.Equal(t, st.SessionID, archive.hops[0].SessionID)
	assert.Equal(t, 1, archive.hops[1].Seq)
	assert.Equal(t, st.History[1].StationCd, archive.hops[1].StationCd)
	assert.NotEmpty(t, archive.hops[1].LineCd)

	_, err = m.Go(ctx)
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = m.Reroll(ctx)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestFinish_ArchiveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	archive := &fakeArchiver{err: errors.New("es down")}
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 6, WithArchiver(archive))

	_, err := m.Current(ctx)
	require.NoError(t, err)
	_, err = m.Go(ctx)
	require.NoError(t, err)

	st, err := m.Finish(ctx)
	require.NoError(t, err)
	assert.True(t, st.Completed)
}

func TestReset_DeletesAndRestarts(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	m := newManager(t, metrotest.ThreeLineHub(), kv, 7)

	_, err := m.Current(ctx)
	require.NoError(t, err)
	moved, err := m.Go(ctx)
	require.NoError(t, err)

	st, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Len(t, st.History, 1)
	assert.NotEqual(t, moved.SessionID, st.SessionID)

	saved, err := m.Load(ctx, "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, st.SessionID, saved.SessionID)
}

func TestStartOverwritesActiveSession(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 8)

	first, err := m.Current(ctx)
	require.NoError(t, err)
	st, err := m.Start(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, st.SessionID)
	assert.Len(t, st.History, 1)
}

func TestLoad_Missing(t *testing.T) {
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 1)
	_, err := m.Load(context.Background(), "1999-01-01")
	assert.ErrorIs(t, err, ErrNoSession)
}

func pastDay(stations ...string) models.PersistedState {
	st := models.PersistedState{}
	for _, s := range stations {
		st.History = append(st.History, models.HistoryEntry{StationCd: s, StationGCd: "G-" + s})
	}
	return st
}

func TestPastDays_NewestFirstExcludingActive(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	saveRaw(t, kv, "2026-02-26", pastDay("a1"))
	saveRaw(t, kv, "2026-02-28", pastDay("b1", "b2"))
	saveRaw(t, kv, "2026-02-27", models.PersistedState{})
	require.NoError(t, kv.Put(ctx, ExcludePastKey, "false"))

	m := newManager(t, metrotest.ThreeLineHub(), kv, 1)
	_, err := m.Current(ctx)
	require.NoError(t, err)

	days, err := m.PastDays(ctx)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-02-28", days[0].Date)
	assert.Equal(t, "2026-02-26", days[1].Date)

	gcds, err := m.PastVisitedGroupCds(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"G-a1": true, "G-b1": true, "G-b2": true}, gcds)

	require.NoError(t, m.DeletePastDay(ctx, "2026-02-26"))
	assert.ErrorIs(t, m.DeletePastDay(ctx, "2026-02-26"), ErrNoSession)
	assert.ErrorIs(t, m.DeletePastDay(ctx, "2026-03-01"), ErrNoSession)

	days, err = m.PastDays(ctx)
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestSetExcludePastVisited_AvoidsPastGroups(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	// a5 이외의 모든 역을 지난 날짜에 방문
	past := pastDay("a1", "a2", "a3", "a7", "b1", "b2", "b3", "b5", "b7", "c1", "c2", "c3", "c5", "c6", "c7")
	past.History = append(past.History, models.HistoryEntry{StationCd: "X1", StationGCd: "GX"})
	saveRaw(t, kv, "2026-02-28", past)

	m := newManager(t, metrotest.ThreeLineHub(), kv, 11)
	_, err := m.Current(ctx)
	require.NoError(t, err)
	assert.False(t, m.ExcludePastVisited(ctx))

	st, err := m.SetExcludePastVisited(ctx, true)
	require.NoError(t, err)
	assert.True(t, m.ExcludePastVisited(ctx))
	require.NotNil(t, st.PendingNextCd)
	assert.Equal(t, "a5", *st.PendingNextCd)

	// 설정이 켜져 있으면 다시 뽑아도 지난 방문 역은 나오지 않는다
	for i := 0; i < 10; i++ {
		st, err = m.Reroll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a5", *st.PendingNextCd)
	}

	st, err = m.SetExcludePastVisited(ctx, false)
	require.NoError(t, err)
	assert.False(t, m.ExcludePastVisited(ctx))
	assert.NotNil(t, st.PendingNextCd)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 12)

	_, err := m.Current(ctx)
	require.NoError(t, err)
	_, err = m.Go(ctx)
	require.NoError(t, err)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStats{
		SessionDate:   "2026-03-01",
		VisitedCount:  2,
		UniqueVisited: 2,
		TotalStations: 18,
	}, stats)
}

func TestBusyWhileAnotherOperationHoldsLock(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 13)
	_, err := m.Current(ctx)
	require.NoError(t, err)

	m.mu.Lock()
	_, goErr := m.Go(ctx)
	_, toggleErr := m.ToggleSuspension(ctx, "L2")
	_, excludeErr := m.SetExcludePastVisited(ctx, true)
	_, revealErr := m.MarkRevealed(ctx, []int{1, 1})
	m.mu.Unlock()

	assert.ErrorIs(t, goErr, ErrBusy)
	assert.ErrorIs(t, toggleErr, ErrBusy)
	assert.ErrorIs(t, excludeErr, ErrBusy)
	assert.ErrorIs(t, revealErr, ErrBusy)
	assert.False(t, m.ExcludePastVisited(ctx))
}

func TestRevealPlan(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 14)

	st, err := m.Current(ctx)
	require.NoError(t, err)

	plan, err := m.RevealPlan(ctx)
	require.NoError(t, err)

	dest, _ := m.Graph().Station(*st.PendingNextCd)
	assert.Equal(t, dest.Name, plan.FinalName)
	assert.Equal(t, metro.CountRides(st.PendingRoute), plan.RideCount)

	n := len(plan.DiceFaces)
	require.Contains(t, []int{2, 3}, n)
	expected := max(n, min(6*n, plan.RideCount))
	assert.Equal(t, expected, reveal.Sum(plan.DiceFaces))
	assert.Contains(t, plan.RouletteNames, dest.Name)
	assert.GreaterOrEqual(t, len(plan.RouletteNames), 5)

	// 공개 후에는 저장된 눈을 돌려준다
	_, err = m.MarkRevealed(ctx, []int{4, 5})
	require.NoError(t, err)
	plan, err = m.RevealPlan(ctx)
	require.NoError(t, err)
	assert.True(t, plan.Revealed)
	assert.Equal(t, []int{4, 5}, plan.DiceFaces)
}

func TestRevealTarget_DrivesMachine(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 15)
	st, err := m.Current(ctx)
	require.NoError(t, err)

	target, err := m.RevealTarget(ctx)
	require.NoError(t, err)

	var revealed []int
	machine := reveal.NewMachine(reveal.InstantClock{}, m.Picker().Rand(), reveal.Hooks{
		OnRevealed: func(faces []int) { revealed = faces },
	})
	machine.Start(target)

	assert.Equal(t, reveal.PhaseRevealed, machine.Phase())
	dest, _ := m.Graph().Station(*st.PendingNextCd)
	assert.Equal(t, dest.Name, machine.Name())
	assert.NotEmpty(t, revealed)
}
