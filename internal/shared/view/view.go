package view

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"storyhouse-backend/internal/shared/middleware"
	"storyhouse-backend/pkg/session"
)

// Render draws an HTML view, injecting the current user and any pending
// flash notice alongside the handler-supplied data.
func Render(c *gin.Context, sessions *session.Manager, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if u := middleware.UserFromContext(c); u != nil {
		data["User"] = u
	}
	if flash := sessions.PopFlash(c.Writer, c.Request); flash != "" {
		data["Flash"] = flash
	}
	c.HTML(status, name, data)
}

// FieldErrors flattens an ozzo validation error into a field -> message map
// so templates can surface errors next to the offending inputs. Non-field
// errors come back under the "form" key.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			out[field] = ferr.Error()
		}
		return out
	}
	if err != nil {
		out["form"] = err.Error()
	}
	return out
}

// NotFound renders the shared 404 view.
func NotFound(c *gin.Context, sessions *session.Manager) {
	Render(c, sessions, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Message": "The page you are looking for does not exist.",
	})
}

// ServerError renders the shared 500 view.
func ServerError(c *gin.Context, sessions *session.Manager) {
	Render(c, sessions, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": "An unexpected error occurred. Please try again.",
	})
}
