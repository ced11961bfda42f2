// Package otel bridges authcore engine metrics into an OpenTelemetry meter
// as observable counters.
package otel
