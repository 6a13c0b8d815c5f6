package controllers

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"inkpot/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentController_Add(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, "Discuss", true)
	commentURL := "/posts/" + strconv.Itoa(post.ID) + "/comment"

	w := env.do(request{path: commentURL})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="author"`)

	w = env.do(request{method: "POST", path: commentURL, form: url.Values{"author": {""}, "text": {"hi"}}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")

	w = env.do(request{method: "POST", path: commentURL, form: url.Values{"author": {"ann"}, "text": {"hi"}}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))

	comments, err := env.store.Comments.ListByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.False(t, comments[0].Approved)

	w = env.do(request{path: "/posts/999/comment"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(request{method: "POST", path: "/posts/999/comment", form: url.Values{"author": {"ann"}, "text": {"hi"}}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentController_ApprovalMakesCommentVisible(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, "Discuss", true)
	comment := env.addComment(t, post.ID, "first!", false)

	w := env.do(request{path: post.URL(), anon: true})
	assert.NotContains(t, w.Body.String(), "first!")

	w = env.do(request{path: "/comments/" + strconv.Itoa(comment.ID) + "/approve"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))

	w = env.do(request{path: post.URL(), anon: true})
	assert.Contains(t, w.Body.String(), "first!")

	w = env.do(request{path: "/comments/999/approve"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentController_Remove(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, "Discuss", true)
	comment := env.addComment(t, post.ID, "spam", false)
	removeURL := "/comments/" + strconv.Itoa(comment.ID) + "/remove"

	w := env.do(request{path: removeURL})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))

	_, err := env.store.Comments.GetByID(comment.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	w = env.do(request{path: removeURL})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
