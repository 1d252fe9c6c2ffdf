package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/askpdf/internal/session"
)

// SessionCookie names the cookie carrying the chat session ID
const SessionCookie = "askpdf_session"

const sessionKey = "askpdf.session"

// Session resolves the chat session from its cookie, creating one when the
// cookie is missing or its session has expired.
func Session(store *session.Store, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)

		sess, created := store.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sess.ID, int(ttl.Seconds()), "/", "", secure, true)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session resolved by the Session middleware
func CurrentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
