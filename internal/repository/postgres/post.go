package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/attune-labs/attune/internal/domain/community"
	"github.com/attune-labs/attune/internal/pkg/errors"
)

// PostRepository implements community.Repository
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new community post repository
func NewPostRepository(db *sql.DB) community.Repository {
	return &PostRepository{db: db}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, p *community.Post) error {
	now := time.Now()
	p.CreatedAt = now

	query := `
		INSERT INTO posts (id, user_id, author_name, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.AuthorName, p.Body, now.Unix())
	if err != nil {
		return errors.DatabaseError("Failed to create post", err)
	}
	return nil
}

// List retrieves posts, newest first
func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]*community.Post, error) {
	query := `SELECT id, user_id, author_name, body, created_at FROM posts
		ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list posts", err)
	}
	defer rows.Close()

	var posts []*community.Post
	for rows.Next() {
		var p community.Post
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.UserID, &p.AuthorName, &p.Body, &createdAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan post", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate posts", err)
	}

	return posts, nil
}

// Delete deletes a post
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete post", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Post")
	}
	return nil
}
