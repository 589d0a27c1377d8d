package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhouse-backend/internal/domains/user"
	"storyhouse-backend/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser injects u the way CurrentUser would after resolving a session.
func asUser(u *user.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			c.Set(userKey, u)
		}
		c.Next()
	}
}

func perform(t *testing.T, handlers []gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	chain := append(handlers, func(c *gin.Context) { c.String(http.StatusOK, "reached") })
	router.GET(target, chain...)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthenticated(t *testing.T) {
	t.Run("anonymous is redirected to login with next", func(t *testing.T) {
		w := perform(t, []gin.HandlerFunc{asUser(nil), RequireAuthenticated()}, "/story/7/comment")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fstory%2F7%2Fcomment", w.Header().Get("Location"))
		assert.NotContains(t, w.Body.String(), "reached")
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		u := &user.User{ID: 1, Username: "bob"}
		w := perform(t, []gin.HandlerFunc{asUser(u), RequireAuthenticated()}, "/story/7/comment")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "reached")
	})
}

func TestRequireAuthor(t *testing.T) {
	sessions := session.NewManager(nil, "test-secret", time.Hour, false)

	t.Run("anonymous is redirected to login with next", func(t *testing.T) {
		w := perform(t, []gin.HandlerFunc{asUser(nil), RequireAuthor(sessions)}, "/story/new")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fstory%2Fnew", w.Header().Get("Location"))
	})

	t.Run("non-author is sent home with a notice", func(t *testing.T) {
		u := &user.User{ID: 2, Username: "bob", IsAuthor: false}
		w := perform(t, []gin.HandlerFunc{asUser(u), RequireAuthor(sessions)}, "/story/new")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "storyhouse_flash", cookies[0].Name)
	})

	t.Run("author passes through", func(t *testing.T) {
		u := &user.User{ID: 1, Username: "alice", IsAuthor: true}
		w := perform(t, []gin.HandlerFunc{asUser(u), RequireAuthor(sessions)}, "/story/new")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "reached")
	})
}

func TestAnonymousOnly(t *testing.T) {
	t.Run("authenticated is sent home", func(t *testing.T) {
		u := &user.User{ID: 1, Username: "alice"}
		w := perform(t, []gin.HandlerFunc{asUser(u), AnonymousOnly()}, "/register")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		w := perform(t, []gin.HandlerFunc{asUser(nil), AnonymousOnly()}, "/register")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestUserFromContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, UserFromContext(c))

	u := &user.User{ID: 1}
	c.Set(userKey, u)
	assert.Same(t, u, UserFromContext(c))
}
