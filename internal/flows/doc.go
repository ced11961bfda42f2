// Package flows contains the orchestration of the credential login and
// OAuth reconciliation paths. Flow functions are pure coordination: every
// side effect (store lookups, hash comparisons, counters, audit, metrics)
// arrives through a deps struct injected by the engine, which keeps the
// ordering rules (context before authentication, one hash comparison per
// attempt, audit on terminal states) testable in isolation.
package flows
