package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/spetoki/pastelFacil-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
)

// SupervisorPIN gates sensitive views (closure history, destructive
// deletes) behind the shop's supervisor PIN, sent as X-Supervisor-Pin.
// It sits on top of JWT auth: the caller is already authenticated, the
// PIN just confirms a supervisor is physically present at the counter.
func SupervisorPIN(pin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Supervisor-Pin")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(pin)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("supervisor PIN required"))
			return
		}
		c.Next()
	}
}
