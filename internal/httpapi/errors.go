package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/sessionauth"
)

func writeStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"message":    message,
		"error":      http.StatusText(status),
	})
}

func writeValidation(c *gin.Context, messages []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"statusCode": http.StatusBadRequest,
		"message":    messages,
		"error":      http.StatusText(http.StatusBadRequest),
	})
}

// writeError maps engine errors onto responses. Credential and token failures
// never say which check failed; internal causes are logged, not returned.
func (h *handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessionauth.ErrInvalidCredentials):
		writeStatus(c, http.StatusBadRequest, "Wrong email or password")
	case errors.Is(err, sessionauth.ErrUnauthorized), errors.Is(err, sessionauth.ErrTokenMalformed):
		writeStatus(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, sessionauth.ErrConflict):
		writeStatus(c, http.StatusConflict, "User already exists")
	case errors.Is(err, sessionauth.ErrUserNotFound):
		writeStatus(c, http.StatusNotFound, "User not found")
	default:
		h.logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		writeStatus(c, http.StatusInternalServerError, "Internal server error")
	}
}
