package client

import (
	"context"
	"fmt"
)

// AdminService provides administration operations
type AdminService struct {
	client *Client
}

// UserList is a page of member accounts
type UserList struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
}

// ListUsers retrieves member accounts with pagination
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) (*UserList, error) {
	path := fmt.Sprintf("/api/v1/admin/users?limit=%d&offset=%d", limit, offset)
	var list UserList
	if err := s.client.doRequest(ctx, "GET", path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SetTier changes a user's subscription tier
func (s *AdminService) SetTier(ctx context.Context, userID int64, tier string) error {
	req := map[string]string{"tier": tier}
	path := fmt.Sprintf("/api/v1/admin/users/%d/tier", userID)
	return s.client.doRequest(ctx, "PUT", path, req, nil)
}

// Permissions retrieves the capability table: which tiers may use which
// features
func (s *AdminService) Permissions(ctx context.Context) (map[string][]string, error) {
	var table map[string][]string
	if err := s.client.doRequest(ctx, "GET", "/api/v1/admin/permissions", nil, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// DeletePost removes a community post
func (s *AdminService) DeletePost(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/admin/community/posts/"+id, nil, nil)
}
