package models

import (
	"errors"
	"strconv"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedDate.IsZero() {
		return errors.New("created_date cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = time.Now()
	}
}

// Publish stamps the post as published at the given instant. Calling it
// again moves the timestamp forward; there is no way back to draft.
func (p *Post) Publish(at time.Time) {
	p.PublishedDate = &at
}

// IsDraft reports whether the post has never been published.
func (p *Post) IsDraft() bool {
	return p.PublishedDate == nil
}

// IsPublished reports whether the post is visible to readers at now.
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishedDate != nil && !p.PublishedDate.After(now)
}

// ApprovedComments returns the attached comments that passed moderation.
func (p *Post) ApprovedComments() []*Comment {
	approved := make([]*Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if c != nil && c.Approved && c.PostID == p.ID {
			approved = append(approved, c)
		}
	}
	return approved
}

// URL is the canonical detail page path.
func (p *Post) URL() string {
	return PostURL(p.ID)
}

// PostURL is the detail page path for a post id.
func PostURL(id int) string {
	return "/posts/" + strconv.Itoa(id)
}

func (p *Post) String() string {
	return p.Title
}
