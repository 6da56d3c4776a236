package routes

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"reeltalk/app/controllers"
	"reeltalk/app/middleware"
	"reeltalk/app/repositories"
	"reeltalk/app/services"
	"reeltalk/app/session"
	"reeltalk/app/views"

	"github.com/gorilla/mux"
)

// SetupMVCRoutes wires controllers over repo and returns the router.
func SetupMVCRoutes(repo *repositories.Repository, sessions *session.Manager) (*mux.Router, error) {
	return setupRoutes(repo, sessions, views.FS)
}

func setupRoutes(repo *repositories.Repository, sessions *session.Manager, assets fs.FS) (*mux.Router, error) {
	renderer, err := controllers.NewRenderer(assets)
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	userService := services.NewUserService(repo.Users)
	postService := services.NewPostService(repo.Posts, repo.Comments)
	commentService := services.NewCommentService(repo.Comments, repo.Posts)

	authController := controllers.NewAuthController(userService, renderer)
	postController := controllers.NewPostController(postService, commentService, renderer)
	commentController := controllers.NewCommentController(commentService, renderer)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK")
	}).Methods("GET")

	// Everything else runs on its own connection with the visitor's session.
	// The wrapping is per handler so that a known path with the wrong method
	// still reaches the router's 405 handler.
	dbScope := middleware.DBScope(repo.DB())
	withSession := middleware.Sessions(sessions)
	web := func(h http.HandlerFunc) http.Handler {
		return dbScope(withSession(h))
	}

	router.Handle("/cadastro", web(authController.RegisterForm)).Methods("GET")
	router.Handle("/cadastro", web(authController.Register)).Methods("POST")
	router.Handle("/login", web(authController.LoginForm)).Methods("GET")
	router.Handle("/login", web(authController.Login)).Methods("POST")
	router.Handle("/logout", web(authController.Logout)).Methods("GET")

	router.Handle("/", web(postController.Index)).Methods("GET")
	router.Handle("/criar_postagem", web(postController.New)).Methods("GET")
	router.Handle("/criar_postagem", web(postController.Create)).Methods("POST")
	router.Handle("/postagem/{id:[0-9]+}", web(postController.Show)).Methods("GET")
	router.Handle("/postagem/{id:[0-9]+}", web(postController.AddComment)).Methods("POST")
	router.Handle("/excluir_postagem/{id:[0-9]+}", web(postController.Delete)).Methods("GET")
	router.Handle("/excluir_comentario/{id:[0-9]+}", web(commentController.Delete)).Methods("GET")

	return router, nil
}
