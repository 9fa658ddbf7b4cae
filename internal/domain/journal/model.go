package journal

import "time"

// Entry represents a journal entry written by a user
type Entry struct {
	ID         string     `json:"id"`
	UserID     int64      `json:"user_id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Mood       *string    `json:"mood,omitempty"`
	Analysis   *string    `json:"analysis,omitempty"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
