package controllers

import (
	"errors"
	"net/http"

	"inkpot/app/models"
	"inkpot/app/services"
	"inkpot/app/views"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
	postService    *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(d Deps) *CommentController {
	return &CommentController{
		base:           newBase(d),
		commentService: d.Comments,
		postService:    d.Posts,
	}
}

// Add shows the comment form for a post and stores the comment on submit
func (cc *CommentController) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		cc.notFound(w, r)
		return
	}

	post, err := cc.postService.GetPost(id)
	if err != nil {
		cc.fail(w, r, err, "failed to load post", "post_id", id)
		return
	}
	page := &views.Page{Title: "New comment", Post: post, Form: models.CommentForm{}}

	if r.Method != http.MethodPost {
		cc.render(w, r, "comment_form", http.StatusOK, page)
		return
	}

	if err := r.ParseForm(); err != nil {
		cc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.CommentFormFromValues(r.PostForm)

	comment, err := cc.commentService.AddComment(id, form)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		page.Form, page.Errors = form, verr.Fields
		cc.render(w, r, "comment_form", http.StatusOK, page)
		return
	case err != nil:
		cc.fail(w, r, err, "failed to add comment", "post_id", id)
		return
	}

	cc.record("comment_added")
	cc.logger.Info("comment added", "comment_id", comment.ID, "post_id", id)
	http.Redirect(w, r, post.URL(), http.StatusSeeOther)
}

// Approve publishes a comment and returns to its post
func (cc *CommentController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		cc.notFound(w, r)
		return
	}

	comment, err := cc.commentService.ApproveComment(id)
	if err != nil {
		cc.fail(w, r, err, "failed to approve comment", "comment_id", id)
		return
	}

	cc.record("comment_approved")
	http.Redirect(w, r, models.PostURL(comment.PostID), http.StatusFound)
}

// Remove deletes a comment and returns to the post it was on
func (cc *CommentController) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		cc.notFound(w, r)
		return
	}

	postID, err := cc.commentService.RemoveComment(id)
	if err != nil {
		cc.fail(w, r, err, "failed to remove comment", "comment_id", id)
		return
	}

	cc.record("comment_removed")
	http.Redirect(w, r, models.PostURL(postID), http.StatusFound)
}
