// Package rate implements the fixed-window Redis counters that throttle
// credential logins. Counters are the only mutable, time-decaying state in
// the core and are never read or written outside this package.
//
// Availability policy: when Redis is unreachable the limiter fails open by
// default. Check allows with the full budget, Record and Reset become
// logged no-ops, trading strict enforcement for login availability. The
// FailClosed switch inverts Check for deployments that demand enforcement
// over availability.
package rate
