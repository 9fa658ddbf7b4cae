package dto

import (
	"time"

	"github.com/attune-labs/attune/internal/domain/community"
)

// CreatePostRequest represents a new community post
type CreatePostRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// PostDTO represents a community post in API responses
type PostDTO struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromPost converts a domain post to its API representation
func FromPost(p *community.Post) *PostDTO {
	return &PostDTO{
		ID:         p.ID,
		AuthorName: p.AuthorName,
		Body:       p.Body,
		CreatedAt:  p.CreatedAt,
	}
}

// FromPosts converts a slice of domain posts
func FromPosts(posts []*community.Post) []*PostDTO {
	out := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, FromPost(p))
	}
	return out
}
