package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storyhouse-backend/internal/domains/story"
	"storyhouse-backend/internal/infrastructure/storage"
	"storyhouse-backend/internal/shared/middleware"
	"storyhouse-backend/internal/shared/view"
	"storyhouse-backend/pkg/logger"
	"storyhouse-backend/pkg/session"
)

// StoryHandler serves the story list, detail, creation and comment routes.
type StoryHandler struct {
	service   story.Service
	sessions  *session.Manager
	uploader  *storage.Uploader
	maxUpload int64
}

func NewStoryHandler(service story.Service, sessions *session.Manager, uploader *storage.Uploader, maxUpload int64) *StoryHandler {
	return &StoryHandler{
		service:   service,
		sessions:  sessions,
		uploader:  uploader,
		maxUpload: maxUpload,
	}
}

// storyView decorates a story with its resolved cover URL for templates.
type storyView struct {
	story.Story
	CoverURL string
}

func (h *StoryHandler) toView(s story.Story) storyView {
	v := storyView{Story: s}
	if s.CoverImage != "" {
		v.CoverURL = h.uploader.URL(s.CoverImage)
	}
	return v
}

// Home handles GET / and GET /home.
func (h *StoryHandler) Home(c *gin.Context) {
	stories, err := h.service.ListStories(c.Request.Context())
	if err != nil {
		logger.Error("list stories failed", err)
		view.ServerError(c, h.sessions)
		return
	}

	views := make([]storyView, 0, len(stories))
	for _, s := range stories {
		views = append(views, h.toView(s))
	}

	view.Render(c, h.sessions, http.StatusOK, "home.html", gin.H{
		"Title":   "Latest stories",
		"Stories": views,
	})
}

// ShowStory handles GET /story/:id.
func (h *StoryHandler) ShowStory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		view.NotFound(c, h.sessions)
		return
	}

	s, err := h.service.GetStory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, story.ErrStoryNotFound) {
			view.NotFound(c, h.sessions)
			return
		}
		logger.Error("get story failed", err)
		view.ServerError(c, h.sessions)
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), id)
	if err != nil {
		logger.Error("list comments failed", err)
		view.ServerError(c, h.sessions)
		return
	}

	view.Render(c, h.sessions, http.StatusOK, "story.html", gin.H{
		"Title":    s.Title,
		"Story":    h.toView(*s),
		"Comments": comments,
	})
}

// ShowNewStory handles GET /story/new (author-only, enforced by middleware).
func (h *StoryHandler) ShowNewStory(c *gin.Context) {
	view.Render(c, h.sessions, http.StatusOK, "new_story.html", gin.H{
		"Title": "New story",
	})
}

// CreateStory handles POST /story/new with a multipart body.
func (h *StoryHandler) CreateStory(c *gin.Context) {
	// Oversized bodies are rejected at the boundary, before any processing.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var req story.CreateStoryRequest
	if err := c.ShouldBind(&req); err != nil {
		if isTooLarge(err) {
			h.renderNewStory(c, req, map[string]string{"cover": "upload exceeds the maximum size"}, http.StatusRequestEntityTooLarge)
			return
		}
		h.renderNewStory(c, req, map[string]string{"form": "invalid form submission"}, http.StatusUnprocessableEntity)
		return
	}

	cover, err := h.readCover(c)
	if err != nil {
		if isTooLarge(err) {
			h.renderNewStory(c, req, map[string]string{"cover": "upload exceeds the maximum size"}, http.StatusRequestEntityTooLarge)
			return
		}
		h.renderNewStory(c, req, map[string]string{"cover": "could not read the uploaded file"}, http.StatusUnprocessableEntity)
		return
	}

	actor := middleware.UserFromContext(c)
	s, err := h.service.CreateStory(c.Request.Context(), actor, req, cover)
	if err != nil {
		switch {
		case errors.Is(err, story.ErrNotAuthor):
			h.sessions.SetFlash(c.Writer, "Only authors can publish stories.")
			c.Redirect(http.StatusSeeOther, "/")
		case errors.Is(err, storage.ErrExtensionNotAllowed):
			h.renderNewStory(c, req, map[string]string{"cover": "only .jpg, .jpeg and .png files are allowed"}, http.StatusUnprocessableEntity)
		case errors.Is(err, storage.ErrTooLarge):
			h.renderNewStory(c, req, map[string]string{"cover": "upload exceeds the maximum size"}, http.StatusRequestEntityTooLarge)
		default:
			if fieldErrs := view.FieldErrors(err); len(fieldErrs) > 0 && fieldErrs["form"] == "" {
				h.renderNewStory(c, req, fieldErrs, http.StatusUnprocessableEntity)
				return
			}
			logger.Error("create story failed", err)
			view.ServerError(c, h.sessions)
		}
		return
	}

	h.sessions.SetFlash(c.Writer, "Story published.")
	c.Redirect(http.StatusSeeOther, "/story/"+strconv.FormatInt(s.ID, 10))
}

// AddComment handles POST /story/:id/comment (authenticated, enforced by
// middleware).
func (h *StoryHandler) AddComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		view.NotFound(c, h.sessions)
		return
	}

	var req story.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderStoryWithCommentError(c, id, req, "invalid form submission")
		return
	}

	actor := middleware.UserFromContext(c)
	_, err = h.service.AddComment(c.Request.Context(), actor, id, req)
	if err != nil {
		switch {
		case errors.Is(err, story.ErrStoryNotFound):
			view.NotFound(c, h.sessions)
		case errors.Is(err, story.ErrNotAuthenticated):
			c.Redirect(http.StatusSeeOther, "/login?next=/story/"+strconv.FormatInt(id, 10))
		default:
			if fieldErrs := view.FieldErrors(err); len(fieldErrs) > 0 && fieldErrs["form"] == "" {
				h.renderStoryWithCommentError(c, id, req, fieldErrs["content"])
				return
			}
			logger.Error("add comment failed", err)
			view.ServerError(c, h.sessions)
		}
		return
	}

	c.Redirect(http.StatusSeeOther, "/story/"+strconv.FormatInt(id, 10))
}

// readCover pulls the optional cover part out of the multipart form.
func (h *StoryHandler) readCover(c *gin.Context) (*story.Upload, error) {
	fh, err := c.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &story.Upload{Data: data, Filename: fh.Filename}, nil
}

func (h *StoryHandler) renderNewStory(c *gin.Context, req story.CreateStoryRequest, errs map[string]string, status int) {
	view.Render(c, h.sessions, status, "new_story.html", gin.H{
		"Title":  "New story",
		"Form":   req,
		"Errors": errs,
	})
}

// renderStoryWithCommentError re-renders the story detail with the comment
// form errors surfaced inline.
func (h *StoryHandler) renderStoryWithCommentError(c *gin.Context, id int64, req story.CommentRequest, msg string) {
	s, err := h.service.GetStory(c.Request.Context(), id)
	if err != nil {
		view.NotFound(c, h.sessions)
		return
	}
	comments, err := h.service.ListComments(c.Request.Context(), id)
	if err != nil {
		logger.Error("list comments failed", err)
		view.ServerError(c, h.sessions)
		return
	}

	view.Render(c, h.sessions, http.StatusUnprocessableEntity, "story.html", gin.H{
		"Title":        s.Title,
		"Story":        h.toView(*s),
		"Comments":     comments,
		"CommentForm":  req,
		"CommentError": msg,
	})
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
