package internaldefs

import (
	"github.com/MrEthical07/sessionauth"
)

// CounterDef names one engine counter.
type CounterDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram.
type HistogramDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter exported for audit events lost to a full buffer.
const AuditDroppedName = "sessionauth_audit_dropped_total"

// AuditDroppedHelp is the help text for AuditDroppedName.
const AuditDroppedHelp = "Audit events dropped because the dispatcher buffer was full."

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: sessionauth.MetricLoginSuccess, Name: "sessionauth_login_success_total", Help: "Logins that issued a token pair."},
	{ID: sessionauth.MetricLoginFailure, Name: "sessionauth_login_failure_total", Help: "Rejected or failed logins."},
	{ID: sessionauth.MetricRefreshSuccess, Name: "sessionauth_refresh_success_total", Help: "Refreshes that issued an access token."},
	{ID: sessionauth.MetricRefreshFailure, Name: "sessionauth_refresh_failure_total", Help: "Rejected or failed refreshes."},
	{ID: sessionauth.MetricRefreshMismatch, Name: "sessionauth_refresh_mismatch_total", Help: "Refresh tokens that no longer match the stored token."},
	{ID: sessionauth.MetricGuardRejected, Name: "sessionauth_guard_rejected_total", Help: "Access checks that rejected the request."},
	{ID: sessionauth.MetricSessionCreated, Name: "sessionauth_session_created_total", Help: "Refresh records written."},
	{ID: sessionauth.MetricRegisterSuccess, Name: "sessionauth_register_success_total", Help: "Accounts created."},
	{ID: sessionauth.MetricRegisterDuplicate, Name: "sessionauth_register_duplicate_total", Help: "Registrations rejected as duplicates."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: sessionauth.MetricValidateLatency, Name: "sessionauth_validate_latency_seconds", Help: "Access check latency."},
}

// HistogramBounds are the bucket upper bounds in seconds, matching the engine's
// latency buckets.
var HistogramBounds = []string{
	"0.001",
	"0.002",
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds made safe for instrument names.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_002",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets turns per-bucket counts into the running totals both
// exporters publish.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := range raw {
		running += raw[i]
		out[i] = running
	}
	return out
}
