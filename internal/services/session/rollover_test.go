package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-hopper/internal/metro/metrotest"
	"station-hopper/internal/models"
	"station-hopper/internal/services/store"
	"station-hopper/internal/utils"
)

func TestRolloverWorker_PreparesSessionOncePerDay(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	now := fixedNow
	m := newManager(t, metrotest.ThreeLineHub(), kv, 1, WithClock(func() time.Time { return now }))
	w := NewRolloverWorker(m, utils.NewDiscardLogger(), time.Minute, 0)

	assert.True(t, w.CheckAndRollover(ctx))
	assert.False(t, w.CheckAndRollover(ctx))

	_, ok, err := kv.Get(ctx, stateKey("2026-03-01"))
	require.NoError(t, err)
	assert.True(t, ok)

	now = fixedNow.Add(24 * time.Hour)
	assert.True(t, w.CheckAndRollover(ctx))

	st, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", st.SessionDate)
}

func TestRolloverWorker_PrunesExpiredSessions(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	old := models.PersistedState{
		CurrentStationCd: "A",
		History:          []models.HistoryEntry{{StationCd: "A", StationGCd: metrotest.HubGroupCd}},
	}
	saveRaw(t, kv, "2026-01-15", old)
	saveRaw(t, kv, "2026-02-25", old)

	m := newManager(t, metrotest.ThreeLineHub(), kv, 1)
	w := NewRolloverWorker(m, utils.NewDiscardLogger(), time.Minute, 30*24*time.Hour)
	require.True(t, w.CheckAndRollover(ctx))

	keys, err := kv.ListKeys(ctx, StateKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{stateKey("2026-02-25"), stateKey("2026-03-01")}, keys)
}

func TestPruneBefore_KeepsActiveSession(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	m := newManager(t, metrotest.ThreeLineHub(), kv, 1)
	_, err := m.Current(ctx)
	require.NoError(t, err)

	pruned, err := m.PruneBefore(ctx, "2099-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, pruned)
}

func TestRolloverWorker_StartStop(t *testing.T) {
	m := newManager(t, metrotest.ThreeLineHub(), store.NewMemoryStore(), 1)
	w := NewRolloverWorker(m, utils.NewDiscardLogger(), time.Hour, 0)

	w.Start(context.Background())
	w.Stop()

	st, err := m.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", st.SessionDate)
}
