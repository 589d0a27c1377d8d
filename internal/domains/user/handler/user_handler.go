package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storyhouse-backend/internal/domains/user"
	"storyhouse-backend/internal/shared/view"
	"storyhouse-backend/pkg/logger"
	"storyhouse-backend/pkg/session"
)

// UserHandler serves the registration, login and logout routes.
type UserHandler struct {
	service  user.Service
	sessions *session.Manager
}

func NewUserHandler(service user.Service, sessions *session.Manager) *UserHandler {
	return &UserHandler{service: service, sessions: sessions}
}

// ShowRegister handles GET /register.
func (h *UserHandler) ShowRegister(c *gin.Context) {
	view.Render(c, h.sessions, http.StatusOK, "register.html", gin.H{
		"Title": "Register",
	})
}

// Register handles POST /register.
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderRegister(c, req, map[string]string{"form": "invalid form submission"})
		return
	}

	_, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			h.renderRegister(c, req, map[string]string{"username": "that username is already taken"})
		case errors.Is(err, user.ErrEmailTaken):
			h.renderRegister(c, req, map[string]string{"email": "that email is already registered"})
		default:
			if fieldErrs := view.FieldErrors(err); len(fieldErrs) > 0 && fieldErrs["form"] == "" {
				h.renderRegister(c, req, fieldErrs)
				return
			}
			logger.Error("register failed", err)
			view.ServerError(c, h.sessions)
		}
		return
	}

	h.sessions.SetFlash(c.Writer, "Account created. Please log in.")
	c.Redirect(http.StatusSeeOther, "/login")
}

// ShowLogin handles GET /login.
func (h *UserHandler) ShowLogin(c *gin.Context) {
	view.Render(c, h.sessions, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Next":  c.Query("next"),
	})
}

// Login handles POST /login.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, req, "invalid form submission")
		return
	}

	u, err := h.service.Authenticate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.renderLogin(c, req, "invalid email or password")
			return
		}
		if fieldErrs := view.FieldErrors(err); len(fieldErrs) > 0 && fieldErrs["form"] == "" {
			h.renderLogin(c, req, "email and password are required")
			return
		}
		logger.Error("login failed", err)
		view.ServerError(c, h.sessions)
		return
	}

	if err := h.sessions.Create(c.Writer, c.Request, u.ID); err != nil {
		logger.Error("session create failed", err)
		view.ServerError(c, h.sessions)
		return
	}

	c.Redirect(http.StatusSeeOther, safeNext(req.Next))
}

// Logout handles GET /logout.
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Writer, c.Request); err != nil {
		logger.Warn("session destroy", err)
	}
	h.sessions.SetFlash(c.Writer, "You have been logged out.")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *UserHandler) renderRegister(c *gin.Context, req user.RegisterRequest, errs map[string]string) {
	view.Render(c, h.sessions, http.StatusUnprocessableEntity, "register.html", gin.H{
		"Title":  "Register",
		"Form":   req,
		"Errors": errs,
	})
}

func (h *UserHandler) renderLogin(c *gin.Context, req user.LoginRequest, msg string) {
	view.Render(c, h.sessions, http.StatusUnprocessableEntity, "login.html", gin.H{
		"Title": "Log in",
		"Form":  req,
		"Next":  req.Next,
		"Error": msg,
	})
}

// safeNext only follows local redirect targets; anything else goes home.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
