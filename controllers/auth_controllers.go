package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/identity"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/utils"
)

const stateCookie = "auth_state"

type AuthController struct {
	*Pages
	Manager *identity.Manager
}

func NewAuthController(manager *identity.Manager, pages *Pages) *AuthController {
	return &AuthController{Pages: pages, Manager: manager}
}

func setCookie(c *gin.Context, name, value string, maxAge int, path string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, "", c.Request.TLS != nil, true)
}

// Login -> redirect ke halaman login Microsoft
func (ac *AuthController) Login(c *gin.Context) {
	state, url, err := ac.Manager.BeginLogin()
	if err != nil {
		utils.InfoLogger.WithError(err).Warn("Sign-in requested but no provider is configured")
		ac.Render(c, http.StatusServiceUnavailable, "error.html", gin.H{
			"Title":   "Sign in",
			"Message": ErrSignInUnavailable.Message,
		})
		return
	}

	// state terbaru menggantikan percobaan login sebelumnya
	setCookie(c, stateCookie, state, int((10 * time.Minute).Seconds()), "/auth")
	c.Redirect(http.StatusFound, url)
}

// Callback -> provider mengarahkan kembali ke sini
func (ac *AuthController) Callback(c *gin.Context) {
	expected, _ := c.Cookie(stateCookie)
	setCookie(c, stateCookie, "", -1, "/auth")

	result := ac.Manager.CompleteLogin(
		c.Request.Context(),
		expected,
		c.Query("state"),
		c.Query("code"),
		c.Query("error"),
	)

	switch result.Status {
	case identity.Authenticated:
		token, exp, err := ac.Manager.IssueSession(*result.Principal)
		if err != nil {
			utils.ErrorLogger.WithError(err).Error("Failed to issue session")
			setFlash(c, "login_failed")
			break
		}
		setCookie(c, middlewares.SessionCookie, token, int(time.Until(exp).Seconds()), "/")
		setFlash(c, "signed_in")
	case identity.Failed:
		utils.InfoLogger.WithField("reason", result.Reason).Warn("Sign-in failed")
		setFlash(c, "login_failed")
	default:
		// respons basi atau tidak dikenal, abaikan saja
		utils.InfoLogger.WithField("reason", result.Reason).Info("Discarded sign-in response")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout -> cabut sesi dan hapus cookie
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.SessionKey)
	if token == "" {
		token, _ = c.Cookie(middlewares.SessionCookie)
	}
	if token != "" {
		ac.Manager.Logout(token)
	}

	setCookie(c, middlewares.SessionCookie, "", -1, "/")
	setFlash(c, "signed_out")
	c.Redirect(http.StatusSeeOther, "/")
}

// Status -> GET /auth/status
func (ac *AuthController) Status(c *gin.Context) {
	p, ok := middlewares.CurrentPrincipal(c)
	if !ok {
		utils.RespondJSON(c, http.StatusOK, "Not signed in", gin.H{
			"authenticated": false,
			"enabled":       ac.Manager.Enabled(),
		})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Signed in", gin.H{
		"authenticated": true,
		"enabled":       ac.Manager.Enabled(),
		"principal":     p,
	})
}
