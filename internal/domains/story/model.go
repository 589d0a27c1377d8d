package story

import "time"

// Story is a published work. Ownership is an explicit foreign key; there are
// no back-pointers between entities, related rows are fetched by owning id.
type Story struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CoverImage  string    `db:"cover_image"` // stored filename, empty when no cover
	UserID      int64     `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`

	// AuthorUsername is populated by the repository's join, for display only.
	AuthorUsername string `db:"author_username"`
}

// Comment is a reply to a story. Never updated or deleted on its own; it is
// removed with its story.
type Comment struct {
	ID        int64     `db:"id"`
	Content   string    `db:"content"`
	UserID    int64     `db:"user_id"`
	StoryID   int64     `db:"story_id"`
	CreatedAt time.Time `db:"created_at"`

	AuthorUsername string `db:"author_username"`
}
