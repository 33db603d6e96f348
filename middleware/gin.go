package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/sessionauth"
)

// PrincipalKey is the gin context key GinGuard stores the principal under.
const PrincipalKey = "sessionauth.principal"

// GinGuard is Guard for gin routers. Rejections abort with a JSON 401 body.
func GinGuard(engine Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if engine == nil {
			abortUnauthorized(c)
			return
		}

		principal, err := engine.AuthenticateHeader(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(PrincipalKey, principal)
		c.Request = c.Request.WithContext(sessionauth.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// PrincipalFromGin returns the principal GinGuard attached.
func PrincipalFromGin(c *gin.Context) (sessionauth.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return sessionauth.Principal{}, false
	}
	p, ok := v.(sessionauth.Principal)
	return p, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"statusCode": http.StatusUnauthorized,
		"message":    "Unauthorized",
		"error":      http.StatusText(http.StatusUnauthorized),
	})
}
