package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func fixedNow(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func date(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}

func TestPeriodResolver_LocationAndClock(t *testing.T) {
	loc := mustLocation(t, "Asia/Jakarta")
	now := time.Date(2025, 2, 14, 3, 0, 0, 0, time.UTC)
	resolver := NewPeriodResolver(loc, fixedNow(now))

	assert.Same(t, loc, resolver.Location())
	assert.True(t, resolver.Now().Equal(now))
	assert.Equal(t, civil.Date{Year: 2025, Month: time.February, Day: 14}, resolver.Today())
}

// -- Resolve tests --

func TestResolve_DefaultsUseLedgerTimezone(t *testing.T) {
	// 20:00 UTC on Feb 15 is already Feb 16 in Jakarta.
	now := time.Date(2025, 2, 15, 20, 0, 0, 0, time.UTC)
	resolver := NewPeriodResolver(mustLocation(t, "Asia/Jakarta"), fixedNow(now))

	period, err := resolver.Resolve(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, civil.Date{Year: 2025, Month: 2, Day: 1}, period.StartDate)
	assert.Equal(t, civil.Date{Year: 2025, Month: 2, Day: 16}, period.EndDate)
	assert.Equal(t, time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC), period.Start)
	assert.Equal(t, time.Date(2025, 2, 16, 16, 59, 59, 0, time.UTC), period.End)
}

func TestResolve_ExplicitDates(t *testing.T) {
	resolver := NewPeriodResolver(mustLocation(t, "Asia/Jakarta"), fixedNow(time.Now()))

	period, err := resolver.Resolve(date(2025, 2, 1), date(2025, 2, 28))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC), period.Start)
	assert.Equal(t, time.Date(2025, 2, 28, 16, 59, 59, 0, time.UTC), period.End)
	assert.Equal(t, time.UTC, period.Start.Location())
}

func TestResolve_SingleDay(t *testing.T) {
	resolver := NewPeriodResolver(time.UTC, nil)

	period, err := resolver.Resolve(date(2025, 5, 5), date(2025, 5, 5))
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour-time.Second, period.End.Sub(period.Start))
}

func TestResolve_InvertedRange(t *testing.T) {
	resolver := NewPeriodResolver(time.UTC, nil)

	_, err := resolver.Resolve(date(2025, 3, 2), date(2025, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Contains(t, err.Error(), "start_date")
}

func TestResolve_DefaultStartAfterExplicitEnd(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	resolver := NewPeriodResolver(time.UTC, fixedNow(now))

	// Start defaults to June 1, which is after May 31.
	_, err := resolver.Resolve(nil, date(2025, 5, 31))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestResolve_StartNeverAfterEnd(t *testing.T) {
	loc := mustLocation(t, "Asia/Jakarta")
	base := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	for hour := 0; hour < 24*40; hour += 7 {
		resolver := NewPeriodResolver(loc, fixedNow(base.Add(time.Duration(hour)*time.Hour)))
		period, err := resolver.Resolve(nil, nil)
		require.NoError(t, err)
		assert.False(t, period.Start.After(period.End))
	}
}

func TestResolve_DaylightSavingTransitions(t *testing.T) {
	resolver := NewPeriodResolver(mustLocation(t, "America/New_York"), nil)

	// Spring forward: the local day has 23 hours.
	period, err := resolver.Resolve(date(2025, 3, 9), date(2025, 3, 9))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 9, 5, 0, 0, 0, time.UTC), period.Start)
	assert.Equal(t, time.Date(2025, 3, 10, 3, 59, 59, 0, time.UTC), period.End)

	// Fall back: the local day has 25 hours.
	period, err = resolver.Resolve(date(2025, 11, 2), date(2025, 11, 2))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 2, 4, 0, 0, 0, time.UTC), period.Start)
	assert.Equal(t, time.Date(2025, 11, 3, 4, 59, 59, 0, time.UTC), period.End)
}

// -- Bounds tests --

func TestBounds_OpenEnded(t *testing.T) {
	resolver := NewPeriodResolver(mustLocation(t, "Asia/Jakarta"), nil)

	from, to, err := resolver.Bounds(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	from, to, err = resolver.Bounds(date(2025, 2, 1), nil)
	require.NoError(t, err)
	require.NotNil(t, from)
	assert.Nil(t, to)
	assert.Equal(t, time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC), *from)

	from, to, err = resolver.Bounds(nil, date(2025, 2, 1))
	require.NoError(t, err)
	assert.Nil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2025, 2, 1, 16, 59, 59, 0, time.UTC), *to)
}

func TestBounds_InvertedRange(t *testing.T) {
	resolver := NewPeriodResolver(time.UTC, nil)

	_, _, err := resolver.Bounds(date(2025, 2, 2), date(2025, 2, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
