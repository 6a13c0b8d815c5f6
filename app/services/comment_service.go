package services

import (
	"fmt"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	now         Clock
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, clock Clock) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		now:         clockOrNow(clock),
	}
}

// AddComment attaches a new, unapproved comment to a post
func (s *CommentService) AddComment(postID int, form models.CommentForm) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}
	if errs := form.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	comment := form.Build(postID)
	comment.CreatedDate = s.now()
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(id int) (*models.Comment, error) {
	return s.commentRepo.GetByID(id)
}

// ApproveComment marks a comment as approved
func (s *CommentService) ApproveComment(id int) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	comment.Approve()
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to approve comment %d: %w", id, err)
	}
	return comment, nil
}

// RemoveComment deletes a comment and returns the id of the post it belonged to
func (s *CommentService) RemoveComment(id int) (int, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return 0, err
	}
	postID := comment.PostID

	if err := s.commentRepo.Delete(id); err != nil {
		return 0, fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return postID, nil
}

// ApprovedComments lists the approved comments of a post
func (s *CommentService) ApprovedComments(postID int) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	post.Comments = comments

	return post.ApprovedComments(), nil
}
