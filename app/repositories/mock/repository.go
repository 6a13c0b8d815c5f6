package mock

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

// Store is an in-memory stand-in for the Badger store. Its repositories
// share one lock so cascading deletes behave like a single transaction.
type Store struct {
	mutex    sync.RWMutex
	posts    map[int]*models.Post
	comments map[int]*models.Comment
	users    map[int]*models.User
	sessions map[string]*models.Session
	nextID   map[string]int

	Posts    *PostRepository
	Comments *CommentRepository
	Users    *UserRepository
	Sessions *SessionRepository
}

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	s.Posts = &PostRepository{s}
	s.Comments = &CommentRepository{s}
	s.Users = &UserRepository{s}
	s.Sessions = &SessionRepository{s}
	return s
}

// Clear forgets every record and restarts the id counters
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.posts = make(map[int]*models.Post)
	s.comments = make(map[int]*models.Comment)
	s.users = make(map[int]*models.User)
	s.sessions = make(map[string]*models.Session)
	s.nextID = make(map[string]int)
}

func (s *Store) next(kind string) int {
	s.nextID[kind]++
	return s.nextID[kind]
}

// Records are copied on the way in and out so callers cannot mutate stored
// state without going through Update, as with the real store.

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Comments = nil
	return &c
}

func copyComment(cm *models.Comment) *models.Comment {
	c := *cm
	return &c
}

func (s *Store) deletePost(id int) {
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.posts, id)
}

type PostRepository struct{ s *Store }

func (m *PostRepository) Create(post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.users[post.AuthorID]; !exists {
		return fmt.Errorf("author %d: %w", post.AuthorID, repositories.ErrNotFound)
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %w", repositories.ErrInvalid, err)
	}
	post.ID = m.s.next("post")
	m.s.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyPost(post), nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %w", repositories.ErrInvalid, err)
	}
	m.s.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	m.s.deletePost(id)
	return nil
}

func (m *PostRepository) ListPublished(now time.Time) ([]*models.Post, error) {
	posts := m.filter(func(p *models.Post) bool { return p.IsPublished(now) })
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := *posts[i].PublishedDate, *posts[j].PublishedDate
		if a.Equal(b) {
			return posts[i].ID > posts[j].ID
		}
		return a.After(b)
	})
	return posts, nil
}

func (m *PostRepository) ListDrafts() ([]*models.Post, error) {
	posts := m.filter(func(p *models.Post) bool { return p.IsDraft() })
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].CreatedDate, posts[j].CreatedDate
		if a.Equal(b) {
			return posts[i].ID < posts[j].ID
		}
		return a.Before(b)
	})
	return posts, nil
}

func (m *PostRepository) ListByAuthor(authorID int) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.AuthorID == authorID }), nil
}

func (m *PostRepository) filter(keep func(*models.Post) bool) []*models.Post {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	posts := []*models.Post{}
	for _, p := range m.s.posts {
		if keep(p) {
			posts = append(posts, copyPost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts
}

type CommentRepository struct{ s *Store }

func (m *CommentRepository) Create(comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[comment.PostID]; !exists {
		return fmt.Errorf("post %d: %w", comment.PostID, repositories.ErrNotFound)
	}
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", repositories.ErrInvalid, err)
	}
	comment.ID = m.s.next("comment")
	m.s.comments[comment.ID] = copyComment(comment)
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	comment, exists := m.s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyComment(comment), nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	existing, exists := m.s.comments[comment.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	comment.PostID = existing.PostID
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", repositories.ErrInvalid, err)
	}
	m.s.comments[comment.ID] = copyComment(comment)
	return nil
}

func (m *CommentRepository) Delete(id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.s.comments, id)
	return nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.s.comments {
		if comment.PostID == postID {
			comments = append(comments, copyComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

type UserRepository struct{ s *Store }

func (m *UserRepository) Create(user *models.User) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	for _, u := range m.s.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, repositories.ErrDuplicate)
		}
	}
	user.BeforeCreate()
	user.ID = m.s.next("user")
	u := *user
	m.s.users[user.ID] = &u
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	user, exists := m.s.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	for _, user := range m.s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List() ([]*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	users := []*models.User{}
	for _, user := range m.s.users {
		u := *user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *UserRepository) Delete(id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.users[id]; !exists {
		return repositories.ErrNotFound
	}
	for pid, p := range m.s.posts {
		if p.AuthorID == id {
			m.s.deletePost(pid)
		}
	}
	for sid, session := range m.s.sessions {
		if session.UserID == id {
			delete(m.s.sessions, sid)
		}
	}
	delete(m.s.users, id)
	return nil
}

type SessionRepository struct{ s *Store }

func (m *SessionRepository) Create(session *models.Session) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	sess := *session
	m.s.sessions[session.ID] = &sess
	return nil
}

func (m *SessionRepository) Get(id string) (*models.Session, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	session, exists := m.s.sessions[id]
	if !exists || session.Expired(time.Now()) {
		return nil, repositories.ErrNotFound
	}
	sess := *session
	return &sess, nil
}

func (m *SessionRepository) Delete(id string) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	delete(m.s.sessions, id)
	return nil
}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.SessionRepository = (*SessionRepository)(nil)
)
