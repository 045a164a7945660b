package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/identity"
	"github.com/yeremiapane/reservation-app/utils"
)

const (
	SessionCookie = "session"
	PrincipalKey  = "principal"
	SessionKey    = "session_token"
)

// IdentityMiddleware resolves the session cookie. It never rejects a
// request; RequirePrincipal does the gating.
func IdentityMiddleware(manager *identity.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		result := manager.Resolve(token)
		if !result.IsAuthenticated() {
			// cookie basi, hapus saja
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		c.Set(PrincipalKey, *result.Principal)
		c.Set(SessionKey, token)
		c.Next()
	}
}

// CurrentPrincipal returns the principal resolved for this request, if any.
func CurrentPrincipal(c *gin.Context) (identity.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return identity.Principal{}, false
	}
	p, ok := v.(identity.Principal)
	return p, ok
}

// RequirePrincipal blocks writes from anonymous visitors. Pages are sent
// back to the list, API calls get a 401.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); ok {
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Sign in to manage reservations"))
			c.Abort()
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
	}
}
