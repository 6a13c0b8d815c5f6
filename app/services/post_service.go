package services

import (
	"fmt"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	now         Clock
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, clock Clock) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		now:         clockOrNow(clock),
	}
}

// CreatePost stores a new draft written by authorID
func (s *PostService) CreatePost(authorID int, form models.PostForm) (*models.Post, error) {
	if errs := form.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	post := &models.Post{
		AuthorID:    authorID,
		CreatedDate: s.now(),
	}
	form.Apply(post)

	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPost retrieves a post by ID with all of its comments attached
func (s *PostService) GetPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	post.Comments = comments

	return post, nil
}

// UpdatePost overwrites the title and text of an existing post
func (s *PostService) UpdatePost(id int, form models.PostForm) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if errs := form.Validate(); errs != nil {
		return post, &ValidationError{Fields: errs}
	}

	form.Apply(post)
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}
	return post, nil
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(id int) error {
	return s.postRepo.Delete(id)
}

// PublishPost stamps the post with the current time. Publishing again refreshes the stamp.
func (s *PostService) PublishPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	post.Publish(s.now())
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to publish post %d: %w", id, err)
	}
	return post, nil
}

// ListPublished returns posts whose publication time has passed, newest first
func (s *PostService) ListPublished() ([]*models.Post, error) {
	return s.postRepo.ListPublished(s.now())
}

// ListDrafts returns unpublished posts, oldest first
func (s *PostService) ListDrafts() ([]*models.Post, error) {
	return s.postRepo.ListDrafts()
}
