package repositories

import (
	"fmt"
	"sort"
	"time"

	"inkpot/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return invalid(err)
	}
	return update(r.db, func(txn *badger.Txn) error {
		// The author must exist; accounts own their posts.
		ok, err := exists(txn, userKey(post.AuthorID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("author %d: %w", post.AuthorID, ErrNotFound)
		}

		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := postKey(post.ID)

		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		if err := post.Validate(); err != nil {
			return invalid(err)
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post and its comments in one transaction
func (r *BadgerPostRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		return deletePostTxn(txn, id)
	})
}

// ListPublished returns posts whose publication time has arrived, newest first
func (r *BadgerPostRepository) ListPublished(now time.Time) ([]*models.Post, error) {
	posts, err := r.filter(func(p *models.Post) bool { return p.IsPublished(now) })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishedDate, posts[j].PublishedDate
		if a.Equal(*b) {
			return posts[i].ID > posts[j].ID
		}
		return a.After(*b)
	})
	return posts, nil
}

// ListDrafts returns posts that were never published, oldest first
func (r *BadgerPostRepository) ListDrafts() ([]*models.Post, error) {
	posts, err := r.filter(func(p *models.Post) bool { return p.IsDraft() })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].CreatedDate, posts[j].CreatedDate
		if a.Equal(b) {
			return posts[i].ID < posts[j].ID
		}
		return a.Before(b)
	})
	return posts, nil
}

// ListByAuthor returns every post written by the given user, in id order
func (r *BadgerPostRepository) ListByAuthor(authorID int) ([]*models.Post, error) {
	return r.filter(byAuthor(authorID))
}

func byAuthor(authorID int) func(*models.Post) bool {
	return func(p *models.Post) bool { return p.AuthorID == authorID }
}

func (r *BadgerPostRepository) filter(keep func(*models.Post) bool) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		posts, err = filterPostsTxn(txn, keep)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func filterPostsTxn(txn *badger.Txn, keep func(*models.Post) bool) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := scan(txn, []byte(PostKeyPrefix), func(_, val []byte) error {
		var post models.Post
		if err := unmarshalEntity(val, &post); err != nil {
			return fmt.Errorf("failed to unmarshal post: %w", err)
		}
		if keep(&post) {
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// deletePostTxn removes a post, its comments and their lookup entries.
func deletePostTxn(txn *badger.Txn, id int) error {
	key := postKey(id)
	ok, err := exists(txn, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	var doomed [][]byte
	err = scan(txn, commentPrefix(id), func(k, val []byte) error {
		var comment models.Comment
		if err := unmarshalEntity(val, &comment); err != nil {
			return err
		}
		doomed = append(doomed, k, commentRefKey(comment.ID))
		return nil
	})
	if err != nil {
		return err
	}

	for _, k := range doomed {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return txn.Delete(key)
}
