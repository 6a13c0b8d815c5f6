package models

import (
	"net/url"
	"strings"
)

// PostForm is the set of post fields a client may submit.
type PostForm struct {
	Title string `form:"title" validate:"required,max=200"`
	Text  string `form:"text" validate:"required"`
}

// PostFormFromValues reads a PostForm from submitted form values.
func PostFormFromValues(v url.Values) PostForm {
	return PostForm{
		Title: strings.TrimSpace(v.Get("title")),
		Text:  strings.TrimSpace(v.Get("text")),
	}
}

// PostFormFrom pre-fills the form with an existing post.
func PostFormFrom(p *Post) PostForm {
	return PostForm{Title: p.Title, Text: p.Text}
}

// Validate returns nil when the form is acceptable.
func (f PostForm) Validate() FieldErrors {
	return fieldErrors(validate.Struct(f))
}

// Apply copies the submitted fields onto p.
func (f PostForm) Apply(p *Post) {
	p.Title = f.Title
	p.Text = f.Text
}

// CommentForm is the set of comment fields a client may submit.
type CommentForm struct {
	Author string `form:"author" validate:"required,max=200"`
	Text   string `form:"text" validate:"required"`
}

// CommentFormFromValues reads a CommentForm from submitted form values.
func CommentFormFromValues(v url.Values) CommentForm {
	return CommentForm{
		Author: strings.TrimSpace(v.Get("author")),
		Text:   strings.TrimSpace(v.Get("text")),
	}
}

// Validate returns nil when the form is acceptable.
func (f CommentForm) Validate() FieldErrors {
	return fieldErrors(validate.Struct(f))
}

// Build returns a new unapproved comment for the given post.
func (f CommentForm) Build(postID int) *Comment {
	return &Comment{
		PostID: postID,
		Author: f.Author,
		Text:   f.Text,
	}
}

// LoginForm carries credentials from the login page.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// LoginFormFromValues reads a LoginForm; the password is kept verbatim.
func LoginFormFromValues(v url.Values) LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
	}
}

// Validate returns nil when the form is acceptable.
func (f LoginForm) Validate() FieldErrors {
	return fieldErrors(validate.Struct(f))
}
