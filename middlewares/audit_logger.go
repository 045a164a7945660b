package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/utils"
)

// AuditLogger records who changed which reservation. Mount it on write routes
// after RequirePrincipal.
func AuditLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}
		if id := c.Param("id"); id != "" {
			fields["reservation_id"] = id
		}
		if p, ok := CurrentPrincipal(c); ok {
			fields["principal"] = p.Email
		}

		// redirect (303) juga dihitung berhasil untuk form HTML
		if c.Writer.Status() < 400 {
			utils.InfoLogger.WithFields(fields).Info("Reservation change")
		} else {
			utils.ErrorLogger.WithFields(fields).Error("Reservation change failed")
		}
	}
}
