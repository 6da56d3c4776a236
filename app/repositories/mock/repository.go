// Package mock provides in-memory repositories for service tests.
package mock

import (
	"context"
	"sort"
	"sync"

	"reeltalk/app/models"
	"reeltalk/app/repositories"
)

type UserRepository struct {
	users  map[int64]*models.User
	nextID int64
	mutex  sync.RWMutex
}

type PostRepository struct {
	posts    map[int64]*models.Post
	nextID   int64
	mutex    sync.RWMutex
	comments *CommentRepository
}

type CommentRepository struct {
	comments map[int64]*models.Comment
	nextID   int64
	mutex    sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int64]*models.User),
		nextID: 1,
	}
}

// NewPostRepository returns a post repository whose deletes cascade into
// comments, like the SQL schema. comments may be nil.
func NewPostRepository(comments *CommentRepository) *PostRepository {
	return &PostRepository{
		posts:    make(map[int64]*models.Post),
		nextID:   1,
		comments: comments,
	}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int64]*models.Comment),
		nextID:   1,
	}
}

// UserRepository implementation
func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) SetAdmin(_ context.Context, email string, admin bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			u.IsAdmin = admin
			return nil
		}
	}
	return repositories.ErrNotFound
}

// PostRepository implementation
func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	stored := *post
	stored.Comments = nil
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id int64) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	found := *post
	return &found, nil
}

func (m *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		found := *p
		posts = append(posts, &found)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *PostRepository) Delete(_ context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	if m.comments != nil {
		m.comments.deleteByPost(id)
	}
	return nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	found := *comment
	return &found, nil
}

func (m *CommentRepository) ListByPost(_ context.Context, postID int64) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var comments []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			found := *c
			comments = append(comments, &found)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) Delete(_ context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// Count returns the number of stored comments.
func (m *CommentRepository) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.comments)
}

func (m *CommentRepository) deleteByPost(postID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
		}
	}
}

var (
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)
