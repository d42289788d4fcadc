package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitive(t *testing.T) {
	assert.Equal(t, "abc****xyz", String.MaskSensitive("abcdefgxyz", 3, 3))
	assert.Equal(t, "****", String.MaskSensitive("abcd", 2, 2))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45초", Time.FormatDuration(45*time.Second))
	assert.Equal(t, "3분", Time.FormatDuration(3*time.Minute))
	assert.Equal(t, "2시간 5분", Time.FormatDuration(2*time.Hour+5*time.Minute))
	assert.Equal(t, "1일 2시간", Time.FormatDuration(26*time.Hour))
}

func TestSessionDate_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2026, 3, 1, 16, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-02", Time.SessionDate(now, tokyo))
	assert.Equal(t, "2026-03-01", Time.SessionDate(now, nil))
}

func TestSliceHelpers(t *testing.T) {
	assert.True(t, Slice.ContainsString([]string{"x", "y"}, "y"))
	assert.Equal(t, map[string]bool{"x": true, "y": true}, Slice.ToSet([]string{"x", "y", "x"}))
}

func TestGenerateSessionID_Unique(t *testing.T) {
	a := ID.GenerateSessionID()
	b := ID.GenerateSessionID()
	require.True(t, strings.HasPrefix(a, "sess_"))
	assert.NotEqual(t, a, b)
}
