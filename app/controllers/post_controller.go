package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"reeltalk/app/models"
	"reeltalk/app/repositories"
	"reeltalk/app/services"
	"reeltalk/app/session"
	"reeltalk/logger"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for posts and their comments
type PostController struct {
	base
	postService    *services.PostService
	commentService *services.CommentService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, commentService *services.CommentService, views *Renderer) *PostController {
	return &PostController{
		base:           base{views: views},
		postService:    postService,
		commentService: commentService,
	}
}

type postFormView struct {
	page
	Form   models.PostForm
	Errors models.FieldErrors
}

type showView struct {
	page
	Post   *models.Post
	Form   models.CommentForm
	Errors models.FieldErrors
}

// Index lists every post
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		pc.sendError(w, r, err)
		return
	}

	data := struct {
		page
		Posts []*models.Post
	}{
		page:  newPage(r, ""),
		Posts: posts,
	}
	pc.render(w, r, http.StatusOK, "posts/index", data)
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, "posts/new", postFormView{page: newPage(r, "Nova postagem")})
}

// Create inserts a post owned by the session's user, or an anonymous one
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.PostForm{
		Title:  r.PostFormValue("titulo"),
		Review: r.PostFormValue("review"),
		Rating: r.PostFormValue("nota"),
	}

	actor := session.FromContext(r.Context()).Actor()
	_, err := pc.postService.CreatePost(r.Context(), form, actor)
	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		pc.render(w, r, http.StatusBadRequest, "posts/new", postFormView{
			page:   newPage(r, "Nova postagem"),
			Form:   form,
			Errors: fieldErrs,
		})
		return
	}
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

// Show displays a post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.sendError(w, r, repositories.ErrNotFound)
		return
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, "posts/show", showView{page: newPage(r, post.Title), Post: post})
}

// AddComment attaches a comment to the post and goes back to it
func (pc *PostController) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.sendError(w, r, repositories.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.CommentForm{Content: r.PostFormValue("conteudo")}

	actor := session.FromContext(r.Context()).Actor()
	_, err := pc.commentService.CreateComment(r.Context(), id, form, actor)
	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		post, err := pc.postService.GetPost(r.Context(), id)
		if err != nil {
			pc.sendError(w, r, err)
			return
		}
		pc.render(w, r, http.StatusBadRequest, "posts/show", showView{
			page:   newPage(r, post.Title),
			Post:   post,
			Form:   form,
			Errors: fieldErrs,
		})
		return
	}
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	redirect(w, r, postURL(id))
}

// Delete removes the post when the session may; otherwise it does nothing.
// Either way the visitor lands on the index.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.sendError(w, r, repositories.ErrNotFound)
		return
	}

	err := pc.postService.DeletePost(r.Context(), id, session.FromContext(r.Context()).Actor())
	if errors.Is(err, services.ErrNotAuthorized) {
		logger.Debugf("refused to delete post %d", id)
	} else if err != nil {
		pc.sendError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

// pathID reads the {id} route variable. Values that overflow int64 cannot
// name a row.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postURL(id int64) string {
	return "/postagem/" + strconv.FormatInt(id, 10)
}
