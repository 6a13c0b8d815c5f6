package models

import "time"

// Post represents a blog post. A nil PublishedDate marks a draft.
type Post struct {
	ID            int        `json:"id" validate:"gte=0"`
	AuthorID      int        `json:"author_id" validate:"required,gt=0"`
	Title         string     `json:"title" validate:"required,max=200"`
	Text          string     `json:"text" validate:"required"`
	CreatedDate   time.Time  `json:"created_date"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Comments      []*Comment `json:"-" validate:"-"`
}

// Comment represents a reader comment awaiting (or past) moderation.
type Comment struct {
	ID          int       `json:"id" validate:"gte=0"`
	PostID      int       `json:"post_id" validate:"required,gt=0"`
	Author      string    `json:"author" validate:"required,max=200"`
	Text        string    `json:"text" validate:"required"`
	CreatedDate time.Time `json:"created_date"`
	Approved    bool      `json:"approved_comment"`
}

// User is an account allowed to write and moderate.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,min=3,max=150,excludesall=/?#"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session binds a browser cookie to a user until ExpiresAt.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
