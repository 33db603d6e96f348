package flows

import (
	"strings"
	"time"
)

// ValidateFailureKind classifies access-token validation failures.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureMissingHeader
	ValidateFailureMalformedHeader
	ValidateFailureToken
)

// ValidatedToken is the flow-local view of verified access claims.
type ValidatedToken struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidateResult returns verified claims or a classified failure.
type ValidateResult struct {
	Failure ValidateFailureKind
	Err     error
	Token   ValidatedToken
}

// ValidateDeps captures access validation dependencies.
type ValidateDeps struct {
	Verify func(token string) (ValidatedToken, error)
}

// BearerToken extracts the token from an Authorization header value. The value
// must be exactly two space-separated parts with a case-insensitive "Bearer"
// scheme.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RunValidateHeader parses an Authorization header and verifies its token.
func RunValidateHeader(header string, deps ValidateDeps) ValidateResult {
	if strings.TrimSpace(header) == "" {
		return ValidateResult{Failure: ValidateFailureMissingHeader}
	}
	token, ok := BearerToken(header)
	if !ok {
		return ValidateResult{Failure: ValidateFailureMalformedHeader}
	}
	return RunValidate(token, deps)
}

// RunValidate fully verifies an access token.
func RunValidate(token string, deps ValidateDeps) ValidateResult {
	if token == "" {
		return ValidateResult{Failure: ValidateFailureMalformedHeader}
	}
	validated, err := deps.Verify(token)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureToken, Err: err}
	}
	return ValidateResult{Token: validated}
}
