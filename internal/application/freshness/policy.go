// Package freshness decide si un registro cacheado sirve o hay que ir a la red.
// No tiene efectos secundarios: el "ahora" siempre llega como parametro.
package freshness

import "time"

const (
	DefaultListWindow   = 15 * time.Minute
	DefaultDetailWindow = 10 * time.Minute
	DefaultChartWindow  = 30 * time.Minute
)

// Decision es el resultado de evaluar un registro individual
type Decision string

const (
	ServeCache        Decision = "serve_cache"
	FetchThenCache    Decision = "fetch_then_cache"
	ServeCacheOffline Decision = "serve_cache_offline"
	ErrorNoData       Decision = "error_no_data"
)

// Windows agrupa las ventanas de validez por tipo de recurso
type Windows struct {
	List   time.Duration
	Detail time.Duration
	Chart  time.Duration
}

// DefaultWindows returns 15m list gate, 10m detail, 30m chart
func DefaultWindows() Windows {
	return Windows{
		List:   DefaultListWindow,
		Detail: DefaultDetailWindow,
		Chart:  DefaultChartWindow,
	}
}

// Policy aplica las ventanas configuradas
type Policy struct {
	windows Windows
}

func NewPolicy(windows Windows) *Policy {
	if windows.List <= 0 {
		windows.List = DefaultListWindow
	}
	if windows.Detail <= 0 {
		windows.Detail = DefaultDetailWindow
	}
	if windows.Chart <= 0 {
		windows.Chart = DefaultChartWindow
	}
	return &Policy{windows: windows}
}

func (p *Policy) Windows() Windows {
	return p.windows
}

// ShouldRefreshList is the list-level gate: due when the last full fetch is
// strictly older than the list window, or when forced. A zero lastFetch is due.
func (p *Policy) ShouldRefreshList(lastFetch, now time.Time, force bool) bool {
	if force || lastFetch.IsZero() {
		return true
	}
	return now.Sub(lastFetch) > p.windows.List
}

// IsValid reports age < window. Age equal to the window is stale.
func IsValid(cachedAt time.Time, window time.Duration, now time.Time) bool {
	if cachedAt.IsZero() {
		return false
	}
	return now.Sub(cachedAt) < window
}

func (p *Policy) DetailValid(cachedAt, now time.Time) bool {
	return IsValid(cachedAt, p.windows.Detail, now)
}

func (p *Policy) ChartValid(cachedAt, now time.Time) bool {
	return IsValid(cachedAt, p.windows.Chart, now)
}

// Decide maps a per-record lookup to the next step of the detail/chart flows.
// online is only consulted when the cache cannot be served as valid.
func Decide(hasCache, valid, online bool) Decision {
	switch {
	case hasCache && valid:
		return ServeCache
	case online:
		return FetchThenCache
	case hasCache:
		return ServeCacheOffline
	default:
		return ErrorNoData
	}
}
