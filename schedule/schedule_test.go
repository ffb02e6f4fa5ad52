package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func entryCount(s *Scheduler) int {
	return len(s.cron.Entries())
}

func TestDailySpec(t *testing.T) {
	spec, err := DailySpec(21)
	require.NoError(t, err)
	assert.Equal(t, "0 21 * * *", spec)

	_, err = DailySpec(24)
	assert.Error(t, err)
	_, err = DailySpec(-1)
	assert.Error(t, err)
}

func TestEnsureDailyIsIdempotent(t *testing.T) {
	s := New(time.UTC, nil)

	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))
	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))
	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))

	assert.Equal(t, 1, entryCount(s))
}

func TestEnsureDailyReplacesHour(t *testing.T) {
	s := New(time.UTC, nil)
	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))
	require.NoError(t, s.EnsureDaily("daily-digest", 6, func() {}))

	next, ok := s.NextAfter("daily-digest", time.Date(2026, 10, 15, 5, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC), next)
	assert.Equal(t, 1, entryCount(s))
}

func TestNextAfterUsesLocation(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	s := New(jst, nil)
	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))

	// 13:00 UTC is 22:00 JST, so the next run is tomorrow 21:00 JST.
	next, ok := s.NextAfter("daily-digest", time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.True(t, next.Equal(time.Date(2026, 10, 16, 21, 0, 0, 0, jst)), "next = %v", next)

	next, ok = s.NextAfter("daily-digest", time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.True(t, next.Equal(time.Date(2026, 10, 15, 21, 0, 0, 0, jst)), "next = %v", next)
}

func TestSeparateNamesCoexist(t *testing.T) {
	s := New(time.UTC, nil)
	require.NoError(t, s.EnsureDaily("a", 1, func() {}))
	require.NoError(t, s.EnsureDaily("b", 2, func() {}))
	assert.Equal(t, 2, entryCount(s))

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, 1, entryCount(s))

	_, ok := s.NextAfter("a", time.Now())
	assert.False(t, ok)
}

func TestEnsureDailyRejectsBadHour(t *testing.T) {
	s := New(time.UTC, nil)
	assert.Error(t, s.EnsureDaily("x", 25, func() {}))
	assert.Equal(t, 0, entryCount(s))
}

func TestEnsureDailyLogsReplacement(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(time.UTC, zap.New(core))

	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))
	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))

	assert.Equal(t, 2, logs.FilterMessage("schedule: trigger installed").Len())
	assert.Equal(t, 1, logs.FilterMessage("schedule: removed existing trigger").Len())
}

func TestStartStop(t *testing.T) {
	s := New(time.UTC, nil)
	require.NoError(t, s.EnsureDaily("daily-digest", 21, func() {}))
	s.Start()

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
