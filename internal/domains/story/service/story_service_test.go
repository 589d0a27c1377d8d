package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhouse-backend/internal/domains/story"
	"storyhouse-backend/internal/domains/user"
	"storyhouse-backend/internal/infrastructure/storage"
)

// fakeRepository is an in-memory story.Repository with the same ordering
// semantics as the SQL queries: newest first, id as tiebreak.
type fakeRepository struct {
	stories       map[int64]*story.Story
	comments      map[int64]*story.Comment
	nextStoryID   int64
	nextCommentID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		stories:       map[int64]*story.Story{},
		comments:      map[int64]*story.Comment{},
		nextStoryID:   1,
		nextCommentID: 1,
	}
}

func (r *fakeRepository) Create(_ context.Context, s *story.Story) (int64, error) {
	s.ID = r.nextStoryID
	r.nextStoryID++
	cp := *s
	r.stories[s.ID] = &cp
	return s.ID, nil
}

func (r *fakeRepository) FindByID(_ context.Context, id int64) (*story.Story, error) {
	if s, ok := r.stories[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, story.ErrStoryNotFound
}

func (r *fakeRepository) List(_ context.Context) ([]story.Story, error) {
	out := make([]story.Story, 0, len(r.stories))
	for _, s := range r.stories {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.stories[id]; !ok {
		return story.ErrStoryNotFound
	}
	delete(r.stories, id)
	for cid, c := range r.comments {
		if c.StoryID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r *fakeRepository) CreateComment(_ context.Context, c *story.Comment) (int64, error) {
	c.ID = r.nextCommentID
	r.nextCommentID++
	cp := *c
	r.comments[c.ID] = &cp
	return c.ID, nil
}

func (r *fakeRepository) ListComments(_ context.Context, storyID int64) ([]story.Comment, error) {
	out := []story.Comment{}
	for _, c := range r.comments {
		if c.StoryID == storyID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// memBackend keeps stored uploads in memory.
type memBackend struct {
	files map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{files: map[string][]byte{}}
}

func (b *memBackend) Save(_ context.Context, name string, data []byte, _ string) error {
	b.files[name] = data
	return nil
}

func (b *memBackend) Remove(_ context.Context, name string) error {
	delete(b.files, name)
	return nil
}

func (b *memBackend) URL(name string) string {
	return "/uploads/" + name
}

func newTestService() (story.Service, *fakeRepository, *memBackend) {
	repo := newFakeRepository()
	backend := newMemBackend()
	uploader := storage.NewUploader(backend, storage.NewImageProcessor(), 16<<20)
	return NewStoryService(repo, uploader), repo, backend
}

func author(id int64, name string) *user.User {
	return &user.User{ID: id, Username: name, Email: name + "@x.com", IsAuthor: true}
}

func reader(id int64, name string) *user.User {
	return &user.User{ID: id, Username: name, Email: name + "@x.com", IsAuthor: false}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestCreateStory(t *testing.T) {
	ctx := context.Background()

	t.Run("non-author is forbidden and nothing is inserted", func(t *testing.T) {
		svc, repo, _ := newTestService()

		_, err := svc.CreateStory(ctx, reader(1, "bob"), story.CreateStoryRequest{
			Title: "Five Words Minimum", Description: "text",
		}, nil)

		assert.ErrorIs(t, err, story.ErrNotAuthor)
		assert.Empty(t, repo.stories)
	})

	t.Run("anonymous is forbidden", func(t *testing.T) {
		svc, repo, _ := newTestService()

		_, err := svc.CreateStory(ctx, nil, story.CreateStoryRequest{
			Title: "Five Words Minimum", Description: "text",
		}, nil)

		assert.ErrorIs(t, err, story.ErrNotAuthor)
		assert.Empty(t, repo.stories)
	})

	t.Run("invalid title is rejected without inserting", func(t *testing.T) {
		svc, repo, _ := newTestService()

		_, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
			Title: "1234", Description: "text",
		}, nil)

		assert.Error(t, err)
		assert.Empty(t, repo.stories)
	})

	t.Run("cover goes through the upload pipeline, row keeps the filename", func(t *testing.T) {
		svc, _, backend := newTestService()

		s, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
			Title: "Five Words Minimum", Description: "text",
		}, &story.Upload{Data: pngBytes(t, 800, 600), Filename: "original.png"})
		require.NoError(t, err)

		require.NotEmpty(t, s.CoverImage)
		assert.NotEqual(t, "original.png", s.CoverImage)
		_, stored := backend.files[s.CoverImage]
		assert.True(t, stored)
	})

	t.Run("rejected extension stores neither file nor row", func(t *testing.T) {
		svc, repo, backend := newTestService()

		_, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
			Title: "Five Words Minimum", Description: "text",
		}, &story.Upload{Data: []byte("GIF89a"), Filename: "animated.gif"})

		assert.ErrorIs(t, err, storage.ErrExtensionNotAllowed)
		assert.Empty(t, repo.stories)
		assert.Empty(t, backend.files)
	})
}

func TestListStoriesOrdering(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()
	alice := author(1, "alice")

	base := time.Now().UTC()
	for i, title := range []string{"First published story", "Second published story", "Third published story"} {
		_, err := repo.Create(ctx, &story.Story{
			Title:       title,
			Description: "text",
			UserID:      alice.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	stories, err := svc.ListStories(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 3)
	assert.Equal(t, "Third published story", stories[0].Title)
	assert.Equal(t, "First published story", stories[2].Title)

	// A newly created story moves to the front.
	_, err = svc.CreateStory(ctx, alice, story.CreateStoryRequest{
		Title: "Fourth published story", Description: "text",
	}, nil)
	require.NoError(t, err)

	stories, err = svc.ListStories(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 4)
	assert.Equal(t, "Fourth published story", stories[0].Title)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown story is NotFound and nothing is inserted", func(t *testing.T) {
		svc, repo, _ := newTestService()

		_, err := svc.AddComment(ctx, reader(2, "bob"), 42, story.CommentRequest{Content: "nice!"})

		assert.ErrorIs(t, err, story.ErrStoryNotFound)
		assert.Empty(t, repo.comments)
	})

	t.Run("anonymous cannot comment", func(t *testing.T) {
		svc, repo, _ := newTestService()
		s, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
			Title: "Five Words Minimum", Description: "text",
		}, nil)
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, nil, s.ID, story.CommentRequest{Content: "nice!"})
		assert.ErrorIs(t, err, story.ErrNotAuthenticated)
		assert.Empty(t, repo.comments)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		svc, repo, _ := newTestService()
		s, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
			Title: "Five Words Minimum", Description: "text",
		}, nil)
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, reader(2, "bob"), s.ID, story.CommentRequest{Content: ""})
		assert.Error(t, err)
		assert.Empty(t, repo.comments)
	})

	t.Run("any authenticated user can comment", func(t *testing.T) {
		svc, _, _ := newTestService()
		s, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
			Title: "Five Words Minimum", Description: "text",
		}, nil)
		require.NoError(t, err)

		c, err := svc.AddComment(ctx, reader(2, "bob"), s.ID, story.CommentRequest{Content: "nice!"})
		require.NoError(t, err)
		assert.Equal(t, "nice!", c.Content)
		assert.Equal(t, s.ID, c.StoryID)

		comments, err := svc.ListComments(ctx, s.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "nice!", comments[0].Content)
	})
}

func TestDeleteStoryCascades(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	s, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
		Title: "Five Words Minimum", Description: "text",
	}, nil)
	require.NoError(t, err)

	other, err := svc.CreateStory(ctx, author(1, "alice"), story.CreateStoryRequest{
		Title: "Another long enough title", Description: "text",
	}, nil)
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, reader(2, "bob"), s.ID, story.CommentRequest{Content: "nice!"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, reader(2, "bob"), other.ID, story.CommentRequest{Content: "keep me"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStory(ctx, s.ID))

	// No orphaned comments remain for the deleted story.
	comments, err := svc.ListComments(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	kept, err := svc.ListComments(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, svc.DeleteStory(ctx, s.ID), story.ErrStoryNotFound)
}
