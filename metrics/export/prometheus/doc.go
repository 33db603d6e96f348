// Package prometheus renders engine counters and the access-check latency
// histogram in the Prometheus text exposition format.
//
// The exporter never registers anything globally; callers mount [Exporter.Handler]
// wherever they serve metrics.
package prometheus
