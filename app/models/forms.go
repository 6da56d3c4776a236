package models

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the form field name rather than the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// RegistrationForm is the sign-up form.
type RegistrationForm struct {
	Username  string `form:"nome_usuario" validate:"required"`
	Name      string `form:"nome" validate:"required"`
	Password  string `form:"senha" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	Birthdate string `form:"niver" validate:"required,datetime=2006-01-02"`
}

func (f RegistrationForm) Validate() FieldErrors {
	return validateForm(f)
}

// PostForm is the new-post form. Rating is kept as text so that a
// non-numeric value is reported as a field error instead of a parse failure.
type PostForm struct {
	Title  string `form:"titulo" validate:"required"`
	Review string `form:"review" validate:"required"`
	Rating string `form:"nota" validate:"required,number"`
}

func (f PostForm) Validate() FieldErrors {
	errs := validateForm(f)
	if errs.Has("nota") {
		return errs
	}
	if _, err := strconv.Atoi(f.Rating); err != nil {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs["nota"] = "Nota inválida"
	}
	return errs
}

// Post builds the row to insert. Call only after Validate succeeds.
func (f PostForm) Post(authorID *int64) *Post {
	rating, _ := strconv.Atoi(f.Rating)
	return &Post{
		Title:    f.Title,
		Review:   f.Review,
		Rating:   rating,
		AuthorID: authorID,
	}
}

// CommentForm is the comment box on a post's page.
type CommentForm struct {
	Content string `form:"conteudo" validate:"required"`
}

func (f CommentForm) Validate() FieldErrors {
	return validateForm(f)
}

func validateForm(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	errs := FieldErrors{}
	for _, fe := range verrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "E-mail inválido"
	case "datetime":
		return "Data inválida (use AAAA-MM-DD)"
	case "number":
		return "Informe um número"
	default:
		return "Valor inválido"
	}
}
