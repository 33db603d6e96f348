package flows

// Deps groups the per-operation dependency sets. The Engine builds it once at
// construction time.
type Deps struct {
	Login    LoginDeps
	Refresh  RefreshDeps
	Validate ValidateDeps
	Register RegisterDeps
}
