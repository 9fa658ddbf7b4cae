package community

import "context"

// Repository defines the interface for community feed data access
type Repository interface {
	// Create creates a new post
	Create(ctx context.Context, p *Post) error

	// List retrieves posts, newest first
	List(ctx context.Context, limit, offset int) ([]*Post, error)

	// Delete deletes a post
	Delete(ctx context.Context, id string) error
}
