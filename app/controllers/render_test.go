package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"reeltalk/app/repositories"
	"reeltalk/app/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRendererParsesEmbeddedViews(t *testing.T) {
	rd, err := NewRenderer(views.FS)
	require.NoError(t, err)
	assert.Len(t, rd.templates, len(pages))
}

func TestRendererMissingPage(t *testing.T) {
	_, err := NewRenderer(fstest.MapFS{
		"layout.html": {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
	})
	assert.Error(t, err)
}

func TestRenderWritesStatusAfterExecuting(t *testing.T) {
	rd, err := NewRenderer(views.FS)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, rd.Render(w, http.StatusBadRequest, "auth/login", struct {
		page
		Email string
	}{Email: "ana@example.com"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `value="ana@example.com"`)

	w = httptest.NewRecorder()
	assert.Error(t, rd.Render(w, http.StatusOK, "nope", nil))
	assert.Empty(t, w.Body.String())
}

func TestSendError(t *testing.T) {
	rd, err := NewRenderer(views.FS)
	require.NoError(t, err)
	b := base{views: rd}

	w := httptest.NewRecorder()
	b.sendError(w, httptest.NewRequest("GET", "/postagem/1", nil), repositories.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Não encontrado")

	w = httptest.NewRecorder()
	b.sendError(w, httptest.NewRequest("GET", "/", nil), errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestAuthorFunc(t *testing.T) {
	author := funcs["author"].(func(string) string)
	assert.Equal(t, "anônimo", author(""))
	assert.Equal(t, "cinefilo", author("cinefilo"))
}
