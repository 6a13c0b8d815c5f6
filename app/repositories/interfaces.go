package repositories

import (
	"time"

	"inkpot/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	Update(post *models.Post) error
	// Delete removes the post together with all of its comments.
	Delete(id int) error
	// ListPublished returns posts published at or before now, newest first.
	ListPublished(now time.Time) ([]*models.Post, error)
	// ListDrafts returns unpublished posts, oldest first.
	ListDrafts() ([]*models.Post, error)
	ListByAuthor(authorID int) ([]*models.Post, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int) error
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	List() ([]*models.User, error)
	// Delete removes the account, its posts (and their comments) and its sessions.
	Delete(id int) error
}

// SessionRepository defines the interface for login session storage
type SessionRepository interface {
	Create(session *models.Session) error
	Get(id string) (*models.Session, error)
	Delete(id string) error
}
