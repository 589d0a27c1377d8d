package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storyhouse-backend/internal/domains/story"
	"storyhouse-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	db *database.PostgresDB
}

// NewPostgresRepository returns the pgx-backed story.Repository.
func NewPostgresRepository(db *database.PostgresDB) story.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, s *story.Story) (int64, error) {
	query := `
		INSERT INTO stories (title, description, cover_image, user_id, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		s.Title,
		s.Description,
		s.CoverImage,
		s.UserID,
		s.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert story: %w", err)
	}

	s.ID = id
	return id, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*story.Story, error) {
	query := `
		SELECT s.id, s.title, s.description, COALESCE(s.cover_image, ''),
		       s.user_id, s.created_at, u.username
		FROM stories s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`

	var s story.Story
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.CoverImage,
		&s.UserID,
		&s.CreatedAt,
		&s.AuthorUsername,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, story.ErrStoryNotFound
		}
		return nil, fmt.Errorf("scan story: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]story.Story, error) {
	query := `
		SELECT s.id, s.title, s.description, COALESCE(s.cover_image, ''),
		       s.user_id, s.created_at, u.username
		FROM stories s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var stories []story.Story
	for rows.Next() {
		var s story.Story
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Description,
			&s.CoverImage,
			&s.UserID,
			&s.CreatedAt,
			&s.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	// The FK has ON DELETE CASCADE; deleting comments explicitly inside the
	// same transaction keeps the removal atomic even on a schema where the
	// cascade is missing.
	return r.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE story_id = $1`, id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete story: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return story.ErrStoryNotFound
		}
		return nil
	})
}

func (r *postgresRepository) CreateComment(ctx context.Context, c *story.Comment) (int64, error) {
	query := `
		INSERT INTO comments (content, user_id, story_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		c.Content,
		c.UserID,
		c.StoryID,
		c.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	c.ID = id
	return id, nil
}

func (r *postgresRepository) ListComments(ctx context.Context, storyID int64) ([]story.Comment, error) {
	query := `
		SELECT c.id, c.content, c.user_id, c.story_id, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.story_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []story.Comment
	for rows.Next() {
		var c story.Comment
		if err := rows.Scan(
			&c.ID,
			&c.Content,
			&c.UserID,
			&c.StoryID,
			&c.CreatedAt,
			&c.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
