package client

import (
	"context"
	"fmt"
)

// CommunityService provides community feed operations
type CommunityService struct {
	client *Client
}

// CreatePost publishes a post to the community feed
func (s *CommunityService) CreatePost(ctx context.Context, body string) (*Post, error) {
	req := map[string]string{"body": body}
	var p Post
	if err := s.client.doRequest(ctx, "POST", "/api/v1/community/posts", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Feed retrieves recent posts, newest first. No authentication required.
func (s *CommunityService) Feed(ctx context.Context, limit, offset int) ([]*Post, error) {
	path := fmt.Sprintf("/api/v1/community/posts?limit=%d&offset=%d", limit, offset)
	var posts []*Post
	if err := s.client.doRequest(ctx, "GET", path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
