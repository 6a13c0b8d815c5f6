package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				ID:          1,
				AuthorID:    1,
				Title:       "Valid Title",
				Text:        "Some body text",
				CreatedDate: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "missing author",
			post: &Post{
				ID:          1,
				Title:       "Valid Title",
				Text:        "Some body text",
				CreatedDate: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "title too long",
			post: &Post{
				ID:          1,
				AuthorID:    1,
				Title:       strings.Repeat("a", 201),
				Text:        "Some body text",
				CreatedDate: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "empty text",
			post: &Post{
				ID:          1,
				AuthorID:    1,
				Title:       "Valid Title",
				CreatedDate: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			post: &Post{
				ID:       1,
				AuthorID: 1,
				Title:    "Valid Title",
				Text:     "Some body text",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{ID: 1, Title: "Test Post", Text: "Test Content"}

	assert.True(t, post.CreatedDate.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreatedDate.IsZero())
}

func TestPostPublish(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post := &Post{ID: 1, Title: "Hello", Text: "World"}

	assert.True(t, post.IsDraft())
	assert.False(t, post.IsPublished(now))

	post.Publish(now)
	assert.False(t, post.IsDraft())
	assert.True(t, post.IsPublished(now))
	assert.Equal(t, now, *post.PublishedDate)

	later := now.Add(time.Hour)
	post.Publish(later)
	assert.True(t, post.IsPublished(later))
	assert.Equal(t, later, *post.PublishedDate)

	t.Run("future publication is not yet visible", func(t *testing.T) {
		p := &Post{ID: 2}
		p.Publish(now.Add(24 * time.Hour))
		assert.False(t, p.IsDraft())
		assert.False(t, p.IsPublished(now))
	})
}

func TestPostApprovedComments(t *testing.T) {
	post := &Post{ID: 1, Title: "Test Post"}
	approved := &Comment{ID: 1, PostID: 1, Text: "nice post", Approved: true}
	pending := &Comment{ID: 2, PostID: 1, Text: "spam"}
	foreign := &Comment{ID: 3, PostID: 2, Text: "elsewhere", Approved: true}
	post.Comments = []*Comment{approved, pending, foreign, nil}

	got := post.ApprovedComments()
	assert.Equal(t, []*Comment{approved}, got)

	pending.Approve()
	assert.Len(t, post.ApprovedComments(), 2)
}

func TestPostStringAndURL(t *testing.T) {
	post := &Post{ID: 42, Title: "Hello"}
	assert.Equal(t, "Hello", post.String())
	assert.Equal(t, "/posts/42", post.URL())
	assert.Equal(t, post.URL(), PostURL(42))
}
