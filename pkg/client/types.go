package client

import "time"

// User represents a member account
type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"displayName,omitempty"`
	Role            string     `json:"role"`
	Tier            string     `json:"subscriptionTier"`
	SubscriptionEnd *time.Time `json:"subscriptionEnd,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// JournalEntry represents a journal entry
type JournalEntry struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Mood       string     `json:"mood,omitempty"`
	Analysis   string     `json:"analysis,omitempty"`
	AnalyzedAt *time.Time `json:"analyzedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Booking represents a coaching session booking
type Booking struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	Notes     string    `json:"notes,omitempty"`
	StartsAt  time.Time `json:"startsAt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post represents a community post
type Post struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Plan describes a subscription tier
type Plan struct {
	Tier            string   `json:"tier"`
	Name            string   `json:"name"`
	MonthlyCents    int64    `json:"monthlyCents"`
	Features        []string `json:"features"`
	RequestsPerHour int      `json:"requestsPerHour"`
}

// HealthResponse is the health endpoint payload
type HealthResponse struct {
	Status string `json:"status"`
}
