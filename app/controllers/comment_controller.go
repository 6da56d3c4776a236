package controllers

import (
	"errors"
	"net/http"

	"reeltalk/app/repositories"
	"reeltalk/app/services"
	"reeltalk/app/session"
	"reeltalk/logger"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, views *Renderer) *CommentController {
	return &CommentController{
		base:           base{views: views},
		commentService: commentService,
	}
}

// Delete removes the comment when the session may, then returns to its post
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		cc.sendError(w, r, repositories.ErrNotFound)
		return
	}

	comment, err := cc.commentService.DeleteComment(r.Context(), id, session.FromContext(r.Context()).Actor())
	if errors.Is(err, services.ErrNotAuthorized) {
		logger.Debugf("refused to delete comment %d", id)
	} else if err != nil {
		cc.sendError(w, r, err)
		return
	}
	redirect(w, r, postURL(comment.PostID))
}
