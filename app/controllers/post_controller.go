package controllers

import (
	"errors"
	"net/http"

	"inkpot/app/middleware"
	"inkpot/app/models"
	"inkpot/app/services"
	"inkpot/app/views"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(d Deps) *PostController {
	return &PostController{
		base:        newBase(d),
		postService: d.Posts,
	}
}

type postDetail struct {
	*models.Post
	Comments []*models.Comment `json:"comments"`
}

// Index lists published posts, newest first
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPublished()
	if err != nil {
		pc.fail(w, r, err, "failed to list published posts")
		return
	}

	if wantsJSON(r) {
		if posts == nil {
			posts = []*models.Post{}
		}
		pc.sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
		return
	}
	pc.render(w, r, "post_list", http.StatusOK, &views.Page{Posts: posts})
}

// Show displays a single post. Visitors see approved comments only; logged-in
// users also see the ones waiting for moderation.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.notFound(w, r)
		return
	}

	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.fail(w, r, err, "failed to load post", "post_id", id)
		return
	}

	approved := post.ApprovedComments()
	if approved == nil {
		approved = []*models.Comment{}
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, postDetail{Post: post, Comments: approved})
		return
	}

	comments := approved
	if middleware.UserFrom(r.Context()) != nil {
		comments = post.Comments
	}
	pc.render(w, r, "post_detail", http.StatusOK, &views.Page{
		Title:    post.String(),
		Post:     post,
		Comments: comments,
	})
}

// New shows the post form and creates the post on submit
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	page := &views.Page{Title: "New post", Form: models.PostForm{}}
	if r.Method != http.MethodPost {
		pc.render(w, r, "post_form", http.StatusOK, page)
		return
	}

	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.PostFormFromValues(r.PostForm)
	user := middleware.UserFrom(r.Context())

	post, err := pc.postService.CreatePost(user.ID, form)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		page.Form, page.Errors = form, verr.Fields
		pc.render(w, r, "post_form", http.StatusOK, page)
		return
	case err != nil:
		pc.fail(w, r, err, "failed to create post", "author_id", user.ID)
		return
	}

	pc.record("post_created")
	pc.logger.Info("post created", "post_id", post.ID, "author_id", user.ID)
	http.Redirect(w, r, post.URL(), http.StatusSeeOther)
}

// Edit shows the post form pre-filled and saves changes on submit
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.notFound(w, r)
		return
	}

	if r.Method != http.MethodPost {
		post, err := pc.postService.GetPost(id)
		if err != nil {
			pc.fail(w, r, err, "failed to load post", "post_id", id)
			return
		}
		pc.render(w, r, "post_form", http.StatusOK, &views.Page{
			Title: "Edit post",
			Post:  post,
			Form:  models.PostFormFrom(post),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.PostFormFromValues(r.PostForm)

	post, err := pc.postService.UpdatePost(id, form)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		pc.render(w, r, "post_form", http.StatusOK, &views.Page{
			Title:  "Edit post",
			Post:   post,
			Form:   form,
			Errors: verr.Fields,
		})
		return
	case err != nil:
		pc.fail(w, r, err, "failed to update post", "post_id", id)
		return
	}

	http.Redirect(w, r, post.URL(), http.StatusSeeOther)
}

// Remove asks for confirmation, then deletes the post and its comments
func (pc *PostController) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.notFound(w, r)
		return
	}

	if r.Method != http.MethodPost {
		post, err := pc.postService.GetPost(id)
		if err != nil {
			pc.fail(w, r, err, "failed to load post", "post_id", id)
			return
		}
		pc.render(w, r, "post_confirm_delete", http.StatusOK, &views.Page{Title: "Remove post", Post: post})
		return
	}

	if err := pc.postService.DeletePost(id); err != nil {
		pc.fail(w, r, err, "failed to delete post", "post_id", id)
		return
	}

	pc.record("post_deleted")
	pc.logger.Info("post deleted", "post_id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Drafts lists unpublished posts, oldest first
func (pc *PostController) Drafts(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListDrafts()
	if err != nil {
		pc.fail(w, r, err, "failed to list drafts")
		return
	}
	pc.render(w, r, "post_draft_list", http.StatusOK, &views.Page{Title: "Drafts", Posts: posts})
}

// Publish stamps the post with the current time and returns to it
func (pc *PostController) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.notFound(w, r)
		return
	}

	post, err := pc.postService.PublishPost(id)
	if err != nil {
		pc.fail(w, r, err, "failed to publish post", "post_id", id)
		return
	}

	pc.record("post_published")
	pc.logger.Info("post published", "post_id", id)
	http.Redirect(w, r, post.URL(), http.StatusFound)
}
