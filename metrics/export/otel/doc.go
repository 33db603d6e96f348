// Package otel publishes engine metrics through an OpenTelemetry meter.
//
// Each counter becomes an Int64ObservableCounter and each histogram bucket an
// Int64ObservableGauge. One callback reads the engine snapshot per collection.
// The caller owns the MeterProvider.
package otel
