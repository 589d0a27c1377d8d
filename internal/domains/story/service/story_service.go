package service

import (
	"context"
	"fmt"
	"time"

	"storyhouse-backend/internal/domains/story"
	"storyhouse-backend/internal/domains/user"
	"storyhouse-backend/internal/infrastructure/storage"
)

type storyService struct {
	repo     story.Repository
	uploader *storage.Uploader
}

func NewStoryService(repo story.Repository, uploader *storage.Uploader) story.Service {
	return &storyService{repo: repo, uploader: uploader}
}

func (s *storyService) ListStories(ctx context.Context) ([]story.Story, error) {
	return s.repo.List(ctx)
}

func (s *storyService) GetStory(ctx context.Context, id int64) (*story.Story, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *storyService) CreateStory(ctx context.Context, actor *user.User, req story.CreateStoryRequest, cover *story.Upload) (*story.Story, error) {
	if actor == nil || !actor.IsAuthor {
		return nil, story.ErrNotAuthor
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var coverName string
	if cover != nil {
		name, err := s.uploader.Store(ctx, cover.Data, cover.Filename)
		if err != nil {
			return nil, err
		}
		coverName = name
	}

	// The file is persisted before the row. A crash between the two leaves
	// an orphaned file in storage; known gap, accepted for this system.
	newStory := &story.Story{
		Title:          req.Title,
		Description:    req.Description,
		CoverImage:     coverName,
		UserID:         actor.ID,
		CreatedAt:      time.Now().UTC(),
		AuthorUsername: actor.Username,
	}

	if _, err := s.repo.Create(ctx, newStory); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	return newStory, nil
}

func (s *storyService) ListComments(ctx context.Context, storyID int64) ([]story.Comment, error) {
	return s.repo.ListComments(ctx, storyID)
}

func (s *storyService) AddComment(ctx context.Context, actor *user.User, storyID int64, req story.CommentRequest) (*story.Comment, error) {
	if actor == nil {
		return nil, story.ErrNotAuthenticated
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The story must exist before the insert is attempted.
	if _, err := s.repo.FindByID(ctx, storyID); err != nil {
		return nil, err
	}

	comment := &story.Comment{
		Content:        req.Content,
		UserID:         actor.ID,
		StoryID:        storyID,
		CreatedAt:      time.Now().UTC(),
		AuthorUsername: actor.Username,
	}

	if _, err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *storyService) DeleteStory(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
