package story

import (
	"context"

	"storyhouse-backend/internal/domains/user"
)

// Service is the story/comment business logic contract.
type Service interface {
	ListStories(ctx context.Context) ([]Story, error)

	GetStory(ctx context.Context, id int64) (*Story, error)

	// CreateStory requires actor.IsAuthor. A supplied cover goes through the
	// upload pipeline first; only the stored filename lands on the row.
	CreateStory(ctx context.Context, actor *user.User, req CreateStoryRequest, cover *Upload) (*Story, error)

	ListComments(ctx context.Context, storyID int64) ([]Comment, error)

	// AddComment requires an authenticated actor and an existing story.
	AddComment(ctx context.Context, actor *user.User, storyID int64, req CommentRequest) (*Comment, error)

	// DeleteStory is the administrative path; it has no route. The story's
	// comments go with it atomically.
	DeleteStory(ctx context.Context, id int64) error
}
