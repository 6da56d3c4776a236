package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"reeltalk/app/models"
	"reeltalk/app/repositories"
	"reeltalk/app/services"
	"reeltalk/app/session"
	"reeltalk/logger"
)

// pages maps a page name to the files parsed with the layout.
var pages = map[string]string{
	"posts/index":      "posts/index.html",
	"posts/new":        "posts/new.html",
	"posts/show":       "posts/show.html",
	"auth/register":    "auth/register.html",
	"auth/login":       "auth/login.html",
	"errors/not_found": "errors/not_found.html",
}

var funcs = template.FuncMap{
	"author": func(name string) string {
		if name == "" {
			return "anônimo"
		}
		return name
	},
}

// Renderer executes the page templates
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page from fsys, each with layout.html.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, "layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// Render executes the named page into a buffer and writes it with status.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := rd.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// page is embedded in every view's data.
type page struct {
	Title  string
	Viewer *session.Identity
	Actor  models.Actor
}

func newPage(r *http.Request, title string) page {
	sess := session.FromContext(r.Context())
	return page{
		Title:  title,
		Viewer: sess.Identity(),
		Actor:  sess.Actor(),
	}
}

// base carries what every controller needs to answer a request.
type base struct {
	views *Renderer
}

func (b base) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := b.views.Render(w, status, name, data); err != nil {
		logger.Errorf("render %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// sendError answers with the 404 page for missing rows and a bare 500
// otherwise. A session naming a deleted account is signed out and sent to
// the login page.
func (b base) sendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrUnknownAuthor) {
		logger.Warningf("%s %s: signing out stale session", r.Method, r.URL.Path)
		sess := session.FromContext(r.Context())
		sess.Clear()
		if b.saveSession(w, r, sess) {
			redirect(w, r, "/login")
		}
		return
	}
	if errors.Is(err, repositories.ErrNotFound) {
		data := struct {
			page
			Message string
		}{
			page:    newPage(r, "Não encontrado"),
			Message: "O conteúdo solicitado não existe.",
		}
		b.render(w, r, http.StatusNotFound, "errors/not_found", data)
		return
	}

	logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (b base) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	if err := sess.Save(w); err != nil {
		b.sendError(w, r, fmt.Errorf("failed to save session: %w", err))
		return false
	}
	return true
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
