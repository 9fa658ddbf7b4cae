package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/attune-labs/attune/internal/domain/booking"
	"github.com/attune-labs/attune/internal/domain/community"
	"github.com/attune-labs/attune/internal/domain/journal"
	"github.com/attune-labs/attune/internal/domain/user"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[int64]*user.User
	EmailIndex  map[string]*user.User
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[int64]*user.User),
		EmailIndex: make(map[string]*user.User),
		NextID:     1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.EmailIndex[u.Email]; exists {
		return fmt.Errorf("email already registered")
	}
	u.ID = m.NextID
	m.NextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (m *MockUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[u.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	u.UpdatedAt = time.Now()
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		delete(m.EmailIndex, u.Email)
		delete(m.Users, id)
		return nil
	}
	return fmt.Errorf("user not found")
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.Users))
	for id := range m.Users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*user.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.Users[id])
	}
	return out, int64(len(m.Users)), nil
}

func (m *MockUserRepository) ListLapsed(ctx context.Context, cutoff int64) ([]*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*user.User
	for _, u := range m.Users {
		if u.Tier != user.TierExplorer && u.SubscriptionEnd != nil && u.SubscriptionEnd.Unix() < cutoff {
			out = append(out, u)
		}
	}
	return out, nil
}

// MockJournalRepository is a mock implementation of journal.Repository
type MockJournalRepository struct {
	mu      sync.Mutex
	Entries map[string]*journal.Entry
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{Entries: make(map[string]*journal.Entry)}
}

func (m *MockJournalRepository) Create(ctx context.Context, e *journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[e.ID] = e
	return nil
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id string) (*journal.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Entries[id]
	if !ok {
		return nil, fmt.Errorf("entry not found")
	}
	return e, nil
}

func (m *MockJournalRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*journal.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*journal.Entry
	for _, e := range m.Entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockJournalRepository) Update(ctx context.Context, e *journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Entries[e.ID]; !ok {
		return fmt.Errorf("entry not found")
	}
	m.Entries[e.ID] = e
	return nil
}

func (m *MockJournalRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, id)
	return nil
}

// MockBookingRepository is a mock implementation of booking.Repository
type MockBookingRepository struct {
	mu       sync.Mutex
	Bookings map[string]*booking.Booking
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{Bookings: make(map[string]*booking.Booking)}
}

func (m *MockBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bookings[b.ID] = b
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking not found")
	}
	return b, nil
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*booking.Booking
	for _, b := range m.Bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Bookings[b.ID]; !ok {
		return fmt.Errorf("booking not found")
	}
	m.Bookings[b.ID] = b
	return nil
}

// MockPostRepository is a mock implementation of community.Repository
type MockPostRepository struct {
	mu    sync.Mutex
	Posts []*community.Post
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{}
}

func (m *MockPostRepository) Create(ctx context.Context, p *community.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Posts = append(m.Posts, p)
	return nil
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int) ([]*community.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*community.Post, len(m.Posts))
	copy(out, m.Posts)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.Posts {
		if p.ID == id {
			m.Posts = append(m.Posts[:i], m.Posts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("post not found")
}

// FakeAIClient is a canned-response AI client for tests
type FakeAIClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (f *FakeAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	if f.Response == "" {
		return "canned reply", nil
	}
	return f.Response, nil
}

func (f *FakeAIClient) Name() string { return "fake" }
