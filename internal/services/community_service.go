package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/domain/community"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/logger"
)

// CommunityService manages the community feed
type CommunityService struct {
	posts  community.Repository
	users  user.Repository
	logger *logger.Logger
}

// NewCommunityService creates a new community service
func NewCommunityService(posts community.Repository, users user.Repository, log *logger.Logger) *CommunityService {
	return &CommunityService{posts: posts, users: users, logger: log}
}

// Post publishes a post to the community feed. The author name is captured
// at publish time so later display name changes do not rewrite history.
func (s *CommunityService) Post(ctx context.Context, userID int64, body string) (*community.Post, error) {
	authorName := "Member"
	if u, err := s.users.GetByID(ctx, userID); err == nil && u.DisplayName != nil && *u.DisplayName != "" {
		authorName = *u.DisplayName
	}

	p := &community.Post{
		ID:         uuid.NewString(),
		UserID:     userID,
		AuthorName: authorName,
		Body:       body,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create post")
		return nil, err
	}
	return p, nil
}

// Feed retrieves the community feed, newest first
func (s *CommunityService) Feed(ctx context.Context, limit, offset int) ([]*community.Post, error) {
	return s.posts.List(ctx, limit, offset)
}

// Remove deletes a post. Moderation only, so no ownership check here; the
// route is gated on the admin role.
func (s *CommunityService) Remove(ctx context.Context, id string) error {
	return s.posts.Delete(ctx, id)
}
