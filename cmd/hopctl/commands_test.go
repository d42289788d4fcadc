package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-hopper/internal/metro/metrotest"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(metrotest.ThreeLineHub())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "metro.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "hopctl", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	for _, name := range []string{"route", "distances", "pick"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRouteCommand(t *testing.T) {
	dataset := writeDataset(t)

	out, err := run(t, "--dataset", dataset, "route", "a1", "b1")
	require.NoError(t, err)
	assert.Contains(t, out, "rides: 6")
	assert.Contains(t, out, "⇄")

	_, err = run(t, "--dataset", dataset, "route", "a1", "nope")
	assert.ErrorContains(t, err, "unknown station")

	_, err = run(t, "--dataset", dataset, "route", "a1")
	assert.Error(t, err)
}

func TestDistancesCommand_JSON(t *testing.T) {
	dataset := writeDataset(t)

	out, err := run(t, "--dataset", dataset, "--json", "distances", "A", "--max", "1")
	require.NoError(t, err)

	var distances map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &distances))
	assert.Equal(t, 0, distances["A"])
	assert.Equal(t, 1, distances["a3"])
	assert.Equal(t, 1, distances["B"])
	assert.NotContains(t, distances, "a1")
}

func TestDistancesCommand_SuspendedLineStopsRides(t *testing.T) {
	dataset := writeDataset(t)

	out, err := run(t, "--dataset", dataset, "--json", "--suspend", "L1", "distances", "A")
	require.NoError(t, err)

	var distances map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &distances))
	assert.NotContains(t, distances, "a3")
	assert.Equal(t, 1, distances["B"])
}

func TestPickCommand_WalksWithoutRevisiting(t *testing.T) {
	dataset := writeDataset(t)

	out, err := run(t, "--dataset", dataset, "--json", "--seed", "7", "pick", "--steps", "5")
	require.NoError(t, err)

	var walk []walkStep
	require.NoError(t, json.Unmarshal([]byte(out), &walk))
	require.NotEmpty(t, walk)
	assert.LessOrEqual(t, len(walk), 6)
	assert.Contains(t, []string{"A", "B", "C"}, walk[0].StationCd)

	seen := make(map[string]bool)
	for _, step := range walk {
		assert.False(t, seen[step.StationCd], "revisited %s", step.StationCd)
		seen[step.StationCd] = true
	}
	for _, step := range walk[1:] {
		assert.Greater(t, step.Rides, 0)
	}
}

func TestPickCommand_SameSeedSameWalk(t *testing.T) {
	dataset := writeDataset(t)

	first, err := run(t, "--dataset", dataset, "--json", "--seed", "11", "pick", "--steps", "4")
	require.NoError(t, err)
	second, err := run(t, "--dataset", dataset, "--json", "--seed", "11", "pick", "--steps", "4")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
