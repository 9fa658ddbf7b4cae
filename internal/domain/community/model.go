package community

import "time"

// Post represents an entry in the community feed
type Post struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
