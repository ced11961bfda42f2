// Package prometheus exposes authcore engine metrics as a
// prometheus/client_golang collector.
package prometheus
