package services

import (
	"context"
	"errors"

	"reeltalk/app/models"
	"reeltalk/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment validates the form and attaches a comment by the actor to
// the post. A post deleted mid-request yields ErrNotFound, and a signed-in
// actor whose account is gone yields ErrUnknownAuthor.
func (s *CommentService) CreateComment(ctx context.Context, postID int64, form models.CommentForm, actor models.Actor) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	comment := &models.Comment{
		Content:  form.Content,
		PostID:   postID,
		AuthorID: actor.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrMissingReference) {
			if _, perr := s.postRepo.GetByID(ctx, postID); perr != nil || actor.Anonymous() {
				return nil, ErrNotFound
			}
			return nil, ErrUnknownAuthor
		}
		return nil, err
	}
	return comment, nil
}

// DeleteComment deletes the comment if the actor owns it or is an admin. The
// comment is returned even when the actor is refused, so the caller knows
// which post to go back to.
func (s *CommentService) DeleteComment(ctx context.Context, id int64, actor models.Actor) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(comment.AuthorID) {
		return comment, ErrNotAuthorized
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return comment, nil
}
