package services

import (
	"time"

	"inkpot/app/models"
	"inkpot/app/repositories/mock"
)

// fakeClock is a settable Clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture() (*mock.Store, *fakeClock, *PostService, *CommentService) {
	store := mock.NewStore()
	// Posts need an existing author; the first account gets id 1.
	if err := store.Users.Create(&models.User{Username: "author", PasswordHash: "x"}); err != nil {
		panic(err)
	}
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	posts := NewPostService(store.Posts, store.Comments, clock.Now)
	comments := NewCommentService(store.Comments, store.Posts, clock.Now)
	return store, clock, posts, comments
}
