package services

import (
	"context"

	"reeltalk/app/models"
	"reeltalk/app/repositories"
	"reeltalk/app/repositories/mock"

	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users    *mock.UserRepository
	posts    *mock.PostRepository
	comments *mock.CommentRepository

	userService    *UserService
	postService    *PostService
	commentService *CommentService
}

func newFixture() *fixture {
	users := mock.NewUserRepository()
	comments := mock.NewCommentRepository()
	posts := mock.NewPostRepository(comments)

	userService := NewUserService(users)
	userService.SetHashCost(bcrypt.MinCost)

	return &fixture{
		users:          users,
		posts:          posts,
		comments:       comments,
		userService:    userService,
		postService:    NewPostService(posts, comments),
		commentService: NewCommentService(comments, posts),
	}
}

func ptr(v int64) *int64 { return &v }

func registration(email string) models.RegistrationForm {
	return models.RegistrationForm{
		Username:  "cinefilo",
		Name:      "Ana Souza",
		Password:  "segredo123",
		Email:     email,
		Birthdate: "1990-04-12",
	}
}

// orphanPosts rejects every insert the way SQLite does when the author row
// has been removed.
type orphanPosts struct {
	*mock.PostRepository
}

func (orphanPosts) Create(context.Context, *models.Post) error {
	return repositories.ErrMissingReference
}

type orphanComments struct {
	*mock.CommentRepository
}

func (orphanComments) Create(context.Context, *models.Comment) error {
	return repositories.ErrMissingReference
}
