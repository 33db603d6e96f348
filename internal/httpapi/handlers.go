package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/middleware"
)

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *handlers) register(c *gin.Context) {
	var body registerBody
	if !h.bindBody(c, &body) {
		return
	}

	res, err := h.svc.Register(c.Request.Context(), sessionauth.RegisterRequest{
		Email:        body.Email,
		Password:     body.Password,
		Name:         body.Name,
		PersonalInfo: body.PersonalInfo,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handlers) profile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromGin(c)
	if !ok {
		writeStatus(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.svc.Profile(c.Request.Context(), principal.Subject)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) login(c *gin.Context) {
	var body loginBody
	if !h.bindBody(c, &body) {
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookie, pair.RefreshToken, int(h.svc.RefreshTTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusCreated, accessTokenResponse{AccessToken: pair.AccessToken})
}

func (h *handlers) refresh(c *gin.Context) {
	token, err := c.Cookie(RefreshCookie)
	if err != nil || token == "" {
		writeStatus(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	access, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, accessTokenResponse{AccessToken: access})
}

func (h *handlers) health(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
