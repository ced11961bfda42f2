package authcore

import "sync/atomic"

// MetricID indexes one counter in the engine's metric table.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginRateLimited
	MetricOAuthSuccess
	MetricOAuthRejected
	MetricOAuthError
	MetricSessionIssued
	MetricServiceTokenMinted
	MetricRateLimitFailOpen

	metricCount
)

var metricNames = [metricCount]string{
	MetricLoginSuccess:       "login_success_total",
	MetricLoginFailure:       "login_failure_total",
	MetricLoginRateLimited:   "login_rate_limited_total",
	MetricOAuthSuccess:       "oauth_success_total",
	MetricOAuthRejected:      "oauth_rejected_total",
	MetricOAuthError:         "oauth_error_total",
	MetricSessionIssued:      "session_issued_total",
	MetricServiceTokenMinted: "service_token_minted_total",
	MetricRateLimitFailOpen:  "rate_limit_fail_open_total",
}

// MetricName returns the stable exposition name for id, or "" for unknown
// IDs.
func MetricName(id MetricID) string {
	if id >= metricCount {
		return ""
	}
	return metricNames[id]
}

// MetricIDs lists every defined metric in exposition order.
func MetricIDs() []MetricID {
	ids := make([]MetricID, 0, metricCount)
	for id := MetricID(0); id < metricCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Metrics is a fixed table of atomic counters. Increments are lock-free and
// safe from any goroutine.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

func newMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc adds one to the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the counter table. The copy is consistent per counter, not
// across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
