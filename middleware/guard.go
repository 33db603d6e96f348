package middleware

import (
	"net/http"

	"github.com/MrEthical07/sessionauth"
)

// Authenticator is the part of *sessionauth.Engine the guards use.
type Authenticator interface {
	AuthenticateHeader(header string) (sessionauth.Principal, error)
}

// Guard rejects requests without a valid bearer access token.
func Guard(engine Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			principal, err := engine.AuthenticateHeader(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := sessionauth.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
