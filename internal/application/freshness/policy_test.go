package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNewPolicy_FillsMissingWindows(t *testing.T) {
	p := NewPolicy(Windows{Detail: time.Minute})

	assert.Equal(t, DefaultListWindow, p.Windows().List)
	assert.Equal(t, time.Minute, p.Windows().Detail)
	assert.Equal(t, DefaultChartWindow, p.Windows().Chart)
}

func TestPolicy_ShouldRefreshList(t *testing.T) {
	p := NewPolicy(DefaultWindows())

	tests := []struct {
		name      string
		lastFetch time.Time
		now       time.Time
		force     bool
		want      bool
	}{
		{"never fetched", time.Time{}, baseTime, false, true},
		{"fetched five minutes ago", baseTime.Add(-5 * time.Minute), baseTime, false, false},
		{"exactly at the window is not due", baseTime.Add(-15 * time.Minute), baseTime, false, false},
		{"just past the window", baseTime.Add(-15*time.Minute - time.Second), baseTime, false, true},
		{"forced while fresh", baseTime.Add(-time.Minute), baseTime, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ShouldRefreshList(tt.lastFetch, tt.now, tt.force))
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		cachedAt time.Time
		window   time.Duration
		want     bool
	}{
		{"fresh detail", baseTime.Add(-9 * time.Minute), DefaultDetailWindow, true},
		{"age equal to window is stale", baseTime.Add(-10 * time.Minute), DefaultDetailWindow, false},
		{"stale detail", baseTime.Add(-12 * time.Minute), DefaultDetailWindow, false},
		{"fresh chart", baseTime.Add(-29 * time.Minute), DefaultChartWindow, true},
		{"zero timestamp", time.Time{}, DefaultChartWindow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.cachedAt, tt.window, baseTime))
		})
	}
}

func TestPolicy_ResourceWindowsAreIndependent(t *testing.T) {
	p := NewPolicy(DefaultWindows())
	cachedAt := baseTime.Add(-20 * time.Minute)

	assert.False(t, p.DetailValid(cachedAt, baseTime))
	assert.True(t, p.ChartValid(cachedAt, baseTime))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		hasCache bool
		valid    bool
		online   bool
		want     Decision
	}{
		{"valid cache wins even offline", true, true, false, ServeCache},
		{"valid cache wins online", true, true, true, ServeCache},
		{"stale cache online fetches", true, false, true, FetchThenCache},
		{"no cache online fetches", false, false, true, FetchThenCache},
		{"stale cache offline", true, false, false, ServeCacheOffline},
		{"nothing offline", false, false, false, ErrorNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.hasCache, tt.valid, tt.online))
		})
	}
}
