package services

import (
	"context"
	"testing"

	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/testutil"
)

func TestCommunityService_Post(t *testing.T) {
	users := testutil.NewMockUserRepository()
	posts := testutil.NewMockPostRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewCommunityService(posts, users, log)
	ctx := context.Background()

	userSvc := newUserService(users)
	name := "Sam"
	named, _ := userSvc.Register(ctx, "sam@example.com", "password123", &name)
	unnamed, _ := userSvc.Register(ctx, "anon@example.com", "password123", nil)

	p, err := service.Post(ctx, named.ID, "This helped us so much.")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if p.AuthorName != "Sam" {
		t.Errorf("Post() author = %v, want Sam", p.AuthorName)
	}

	p, err = service.Post(ctx, unnamed.ID, "First post.")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if p.AuthorName != "Member" {
		t.Errorf("Post() fallback author = %v, want Member", p.AuthorName)
	}

	feed, err := service.Feed(ctx, 10, 0)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("Feed() returned %d posts, want 2", len(feed))
	}

	if err := service.Remove(ctx, p.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	feed, _ = service.Feed(ctx, 10, 0)
	if len(feed) != 1 {
		t.Errorf("Feed() after removal returned %d posts, want 1", len(feed))
	}
}
