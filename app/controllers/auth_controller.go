package controllers

import (
	"errors"
	"io"
	"net/http"

	"reeltalk/app/models"
	"reeltalk/app/services"
	"reeltalk/app/session"
)

// loginFailed is the body of every failed login, whatever the cause.
const loginFailed = "Falha no login"

// AuthController handles registration, login and logout
type AuthController struct {
	base
	userService *services.UserService
}

// NewAuthController creates a new AuthController
func NewAuthController(userService *services.UserService, views *Renderer) *AuthController {
	return &AuthController{
		base:        base{views: views},
		userService: userService,
	}
}

type registerView struct {
	page
	Form   models.RegistrationForm
	Errors models.FieldErrors
}

// RegisterForm displays the registration form
func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, http.StatusOK, "auth/register", registerView{page: newPage(r, "Cadastro")})
}

// Register stores a new account and sends the visitor to the login page.
// Invalid input re-renders the form and never redirects.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.RegistrationForm{
		Username:  r.PostFormValue("nome_usuario"),
		Name:      r.PostFormValue("nome"),
		Password:  r.PostFormValue("senha"),
		Email:     r.PostFormValue("email"),
		Birthdate: r.PostFormValue("niver"),
	}

	_, err := ac.userService.Register(r.Context(), form)
	var fieldErrs models.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
	case errors.Is(err, services.ErrEmailTaken):
		fieldErrs = models.FieldErrors{"email": "E-mail já cadastrado"}
	case err != nil:
		ac.sendError(w, r, err)
		return
	}
	if fieldErrs != nil {
		form.Password = ""
		ac.render(w, r, http.StatusBadRequest, "auth/register", registerView{
			page:   newPage(r, "Cadastro"),
			Form:   form,
			Errors: fieldErrs,
		})
		return
	}

	sess := session.FromContext(r.Context())
	sess.SetPendingContact(session.PendingContact{
		Username:  form.Username,
		Name:      form.Name,
		Email:     form.Email,
		Birthdate: form.Birthdate,
	})
	if !ac.saveSession(w, r, sess) {
		return
	}
	redirect(w, r, "/login")
}

// LoginForm displays the login form, pre-filled with a just-registered email
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := struct {
		page
		Email string
	}{page: newPage(r, "Entrar")}
	if contact, ok := session.FromContext(r.Context()).PendingContact(); ok {
		data.Email = contact.Email
	}
	ac.render(w, r, http.StatusOK, "auth/login", data)
}

// Login signs the visitor in when the email exists and the password
// verifies. The session gets a new ID on every successful login.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	user, err := ac.userService.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("senha"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, loginFailed)
		return
	}
	if err != nil {
		ac.sendError(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	if err := sess.Renew(); err != nil {
		ac.sendError(w, r, err)
		return
	}
	sess.SignIn(session.Identity{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if !ac.saveSession(w, r, sess) {
		return
	}
	redirect(w, r, "/")
}

// Logout clears the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Clear()
	if !ac.saveSession(w, r, sess) {
		return
	}
	redirect(w, r, "/")
}
