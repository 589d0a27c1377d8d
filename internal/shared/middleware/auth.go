package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"storyhouse-backend/internal/domains/user"
	"storyhouse-backend/pkg/session"
)

const userKey = "currentUser"

// CurrentUser resolves the session to a user record and stores it on the
// request context. Anonymous requests pass through untouched. Authenticated
// requests get their session TTL refreshed.
func CurrentUser(sessions *session.Manager, users user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := sessions.UserID(c.Request); ok {
			if u, err := users.GetByID(c.Request.Context(), id); err == nil {
				c.Set(userKey, u)
				sessions.Refresh(c.Request)
			}
		}
		c.Next()
	}
}

// UserFromContext returns the authenticated user, or nil for anonymous.
func UserFromContext(c *gin.Context) *user.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*user.User); ok {
			return u
		}
	}
	return nil
}

// RequireAuthenticated redirects anonymous requests to the login form,
// preserving the originally requested path in the next parameter.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFromContext(c) == nil {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, "/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuthor gates story publishing. Anonymous requests go to login;
// authenticated non-authors go home with a notice.
func RequireAuthor(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := UserFromContext(c)
		if u == nil {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, "/login?next="+next)
			c.Abort()
			return
		}
		if !u.IsAuthor {
			sessions.SetFlash(c.Writer, "Only authors can publish stories.")
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AnonymousOnly sends already-authenticated users home, for the register
// and login pages.
func AnonymousOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFromContext(c) != nil {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
