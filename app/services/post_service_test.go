package services

import (
	"testing"
	"time"

	"inkpot/app/models"
	"inkpot/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	tests := []struct {
		name    string
		form    models.PostForm
		wantErr []string
	}{
		{
			name: "valid post",
			form: models.PostForm{Title: "Test Post", Text: "Test Content"},
		},
		{
			name:    "empty title",
			form:    models.PostForm{Text: "Test Content"},
			wantErr: []string{"title"},
		},
		{
			name:    "title too long",
			form:    models.PostForm{Title: string(make([]byte, 201)), Text: "Test Content"},
			wantErr: []string{"title"},
		},
		{
			name:    "empty form",
			form:    models.PostForm{},
			wantErr: []string{"title", "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, clock, svc, _ := newFixture()

			post, err := svc.CreatePost(1, tt.form)
			if tt.wantErr != nil {
				require.Error(t, err)
				fields := FieldErrors(err)
				for _, f := range tt.wantErr {
					assert.True(t, fields.Has(f), "expected error on %s", f)
				}
				drafts, _ := store.Posts.ListDrafts()
				assert.Empty(t, drafts, "nothing should be persisted")
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, post.ID)
			assert.Equal(t, 1, post.AuthorID)
			assert.Equal(t, clock.Now(), post.CreatedDate)
			assert.True(t, post.IsDraft())
		})
	}
}

func TestPostService_CreatePostUnknownAuthor(t *testing.T) {
	store, _, svc, _ := newFixture()

	_, err := svc.CreatePost(999, models.PostForm{Title: "Orphan", Text: "body"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	drafts, err := store.Posts.ListDrafts()
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestPostService_GetPost(t *testing.T) {
	_, _, svc, comments := newFixture()

	post, err := svc.CreatePost(1, models.PostForm{Title: "Test Post", Text: "Test Content"})
	require.NoError(t, err)
	_, err = comments.AddComment(post.ID, models.CommentForm{Author: "a", Text: "first"})
	require.NoError(t, err)

	t.Run("existing post carries its comments", func(t *testing.T) {
		got, err := svc.GetPost(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test Post", got.Title)
		assert.Len(t, got.Comments, 1)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.GetPost(999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	_, _, svc, _ := newFixture()

	post, err := svc.CreatePost(1, models.PostForm{Title: "Original", Text: "Original"})
	require.NoError(t, err)

	t.Run("valid update keeps author and dates", func(t *testing.T) {
		updated, err := svc.UpdatePost(post.ID, models.PostForm{Title: "Updated", Text: "Changed"})
		require.NoError(t, err)
		assert.Equal(t, "Updated", updated.Title)
		assert.Equal(t, 1, updated.AuthorID)
		assert.Equal(t, post.CreatedDate, updated.CreatedDate)
	})

	t.Run("invalid update leaves post untouched", func(t *testing.T) {
		current, err := svc.UpdatePost(post.ID, models.PostForm{Title: "", Text: "x"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Fields.Has("title"))
		require.NotNil(t, current)

		stored, err := svc.GetPost(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", stored.Title)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.UpdatePost(999, models.PostForm{Title: "x", Text: "y"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	store, _, svc, comments := newFixture()

	post, err := svc.CreatePost(1, models.PostForm{Title: "Test Post", Text: "Test Content"})
	require.NoError(t, err)
	c1, err := comments.AddComment(post.ID, models.CommentForm{Author: "a", Text: "one"})
	require.NoError(t, err)
	c2, err := comments.AddComment(post.ID, models.CommentForm{Author: "b", Text: "two"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(post.ID))

	_, err = svc.GetPost(post.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	for _, id := range []int{c1.ID, c2.ID} {
		_, err := store.Comments.GetByID(id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	}

	assert.ErrorIs(t, svc.DeletePost(post.ID), repositories.ErrNotFound)
}

func TestPostService_PublishPost(t *testing.T) {
	_, clock, svc, _ := newFixture()

	post, err := svc.CreatePost(1, models.PostForm{Title: "Draft", Text: "body"})
	require.NoError(t, err)

	published, err := svc.PublishPost(post.ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedDate)
	first := *published.PublishedDate
	assert.True(t, published.IsPublished(clock.Now()))

	clock.Advance(time.Hour)
	again, err := svc.PublishPost(post.ID)
	require.NoError(t, err)
	assert.True(t, again.PublishedDate.After(first), "publishing again refreshes the timestamp")

	_, err = svc.PublishPost(999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPostService_DraftToPublishedScenario(t *testing.T) {
	_, clock, svc, _ := newFixture()

	post, err := svc.CreatePost(1, models.PostForm{Title: "Hello", Text: "World"})
	require.NoError(t, err)

	published, err := svc.ListPublished()
	require.NoError(t, err)
	assert.Empty(t, published)

	drafts, err := svc.ListDrafts()
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, post.ID, drafts[0].ID)

	clock.Advance(time.Minute)
	_, err = svc.PublishPost(post.ID)
	require.NoError(t, err)

	published, err = svc.ListPublished()
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Hello", published[0].Title)

	drafts, err = svc.ListDrafts()
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestPostService_ListOrdering(t *testing.T) {
	_, clock, svc, _ := newFixture()

	var ids []int
	for _, title := range []string{"first", "second", "third"} {
		p, err := svc.CreatePost(1, models.PostForm{Title: title, Text: "x"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
		clock.Advance(time.Minute)
	}

	drafts, err := svc.ListDrafts()
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, "first", drafts[0].Title)
	assert.Equal(t, "third", drafts[2].Title)

	// Publish in reverse so the oldest post is the most recently published.
	for i := len(ids) - 1; i >= 0; i-- {
		_, err := svc.PublishPost(ids[i])
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	published, err := svc.ListPublished()
	require.NoError(t, err)
	require.Len(t, published, 3)
	assert.Equal(t, "first", published[0].Title)
	assert.Equal(t, "third", published[2].Title)
}
