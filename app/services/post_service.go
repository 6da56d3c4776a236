package services

import (
	"context"
	"errors"
	"fmt"

	"reeltalk/app/models"
	"reeltalk/app/repositories"
)

// PostService handles business logic for reviews
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// CreatePost validates the form and inserts exactly one post owned by the
// actor. Anonymous actors create anonymous posts. An actor whose account is
// gone yields ErrUnknownAuthor.
func (s *PostService) CreatePost(ctx context.Context, form models.PostForm, actor models.Actor) (*models.Post, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	post := form.Post(actor.UserID)
	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrMissingReference) && !actor.Anonymous() {
			return nil, ErrUnknownAuthor
		}
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post by ID with its comments
func (s *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	for _, comment := range comments {
		if err := post.AddComment(comment); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// ListPosts retrieves every post in storage order
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// DeletePost deletes the post if the actor owns it or is an admin. Its
// comments are removed with it.
func (s *PostService) DeletePost(ctx context.Context, id int64, actor models.Actor) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(post.AuthorID) {
		return ErrNotAuthorized
	}
	return s.postRepo.Delete(ctx, id)
}
