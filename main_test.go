package main

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-hopper/config"
	"station-hopper/internal/metro"
	"station-hopper/internal/metro/metrotest"
	"station-hopper/internal/models"
	"station-hopper/internal/picker"
	"station-hopper/internal/reveal"
	"station-hopper/internal/services/session"
	"station-hopper/internal/services/store"
	"station-hopper/internal/utils"
)

type recordingArchiver struct {
	hops []models.HopDocument
}

func (a *recordingArchiver) ArchiveHops(_ context.Context, hops []models.HopDocument) error {
	a.hops = append(a.hops, hops...)
	return nil
}

func TestSimulate_PlaysStepsAndFinishes(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewPCG(5, 55))
	g := metro.BuildGraph(metrotest.ThreeLineHub())
	p := picker.NewPicker(g, picker.WithRand(r))
	archiver := &recordingArchiver{}
	m := session.NewManager(p, store.NewMemoryStore(), utils.NewDiscardLogger(), session.WithArchiver(archiver))

	require.NoError(t, simulate(ctx, m, r, 4, utils.NewDiscardLogger()))

	st, err := m.Current(ctx)
	require.NoError(t, err)
	assert.True(t, st.Completed)
	assert.Greater(t, len(st.History), 1)
	assert.LessOrEqual(t, len(st.History), 5)
	assert.Len(t, archiver.hops, len(st.History))
}

func TestRunReveal_ReturnsFacesSummingToRides(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	faces := runReveal(reveal.Target{
		RideCount: 7,
		FinalName: "Goal",
		Names:     func(int) []string { return []string{"x", "y", "Goal"} },
	}, r, utils.NewDiscardLogger())

	require.NotEmpty(t, faces)
	assert.Equal(t, 7, reveal.Sum(faces))
}

func TestStoreOptions_MapsConfig(t *testing.T) {
	cfg := &config.Config{
		StoreBackend: store.BackendRedis,
		Redis: config.RedisConfig{
			Addr:      "redis:6379",
			DB:        2,
			PoolSize:  5,
			KeyPrefix: "hop:",
		},
		SQLitePath: "x.db",
		SessionTTL: 48 * time.Hour,
	}

	opts := storeOptions(cfg)
	assert.Equal(t, store.BackendRedis, opts.Backend)
	assert.Equal(t, "redis:6379", opts.Redis.Addr)
	assert.Equal(t, 2, opts.Redis.DB)
	assert.Equal(t, "hop:", opts.Redis.KeyPrefix)
	assert.Equal(t, 48*time.Hour, opts.Redis.TTL)
	assert.Equal(t, session.StateKeyPrefix, opts.Redis.TTLScope)
	assert.Equal(t, "x.db", opts.SQLitePath)
}
