package story

import "context"

// Repository is the story/comment data access contract.
type Repository interface {
	// Create inserts the story and returns its id.
	Create(ctx context.Context, s *Story) (int64, error)

	// FindByID returns ErrStoryNotFound when no such story exists.
	FindByID(ctx context.Context, id int64) (*Story, error)

	// List returns all stories newest-first. No pagination: full scan by
	// design in this system.
	List(ctx context.Context) ([]Story, error)

	// Delete removes the story and all its comments in one transaction.
	// Returns ErrStoryNotFound when the story does not exist.
	Delete(ctx context.Context, id int64) error

	// CreateComment inserts the comment and returns its id.
	CreateComment(ctx context.Context, c *Comment) (int64, error)

	// ListComments returns a story's comments newest-first.
	ListComments(ctx context.Context, storyID int64) ([]Comment, error)
}
