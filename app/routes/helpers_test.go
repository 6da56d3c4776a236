package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"reeltalk/app/models"
	"reeltalk/app/repositories"
	"reeltalk/app/services"
	"reeltalk/app/session"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	server *httptest.Server
	repo   *repositories.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	repo, err := repositories.NewRepository(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	bdb, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { bdb.Close() })

	manager := session.NewManager(bdb, 0, []byte("0123456789abcdef0123456789abcdef"))
	router, err := SetupMVCRoutes(repo, manager)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{server: server, repo: repo}
}

// client returns a browser-like client with its own cookie jar that does
// not follow redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type response struct {
	Status   int
	Location string
	Body     string
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) response {
	t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	return readResponse(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) response {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return readResponse(t, resp)
}

func readResponse(t *testing.T, resp *http.Response) response {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     string(body),
	}
}

// createUser inserts a user directly, with a cheap hash.
func (a *testApp) createUser(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	users := services.NewUserService(a.repo.Users)
	users.SetHashCost(bcrypt.MinCost)
	user, err := users.Register(context.Background(), models.RegistrationForm{
		Username:  username,
		Name:      strings.ToUpper(username),
		Password:  password,
		Email:     email,
		Birthdate: "1990-04-12",
	})
	require.NoError(t, err)
	return user
}

func (a *testApp) makeAdmin(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, a.repo.Users.SetAdmin(context.Background(), email, true))
}

// login signs c in and fails the test unless the login succeeds.
func (a *testApp) login(t *testing.T, c *http.Client, email, password string) {
	t.Helper()
	resp := a.post(t, c, "/login", url.Values{"email": {email}, "senha": {password}})
	require.Equal(t, http.StatusSeeOther, resp.Status)
	require.Equal(t, "/", resp.Location)
}

func (a *testApp) posts(t *testing.T) []*models.Post {
	t.Helper()
	posts, err := a.repo.Posts.List(context.Background())
	require.NoError(t, err)
	return posts
}

func (a *testApp) comments(t *testing.T, postID int64) []*models.Comment {
	t.Helper()
	comments, err := a.repo.Comments.ListByPost(context.Background(), postID)
	require.NoError(t, err)
	return comments
}

// createPost submits the post form as c and returns the stored row.
func (a *testApp) createPost(t *testing.T, c *http.Client, title string) *models.Post {
	t.Helper()
	before := len(a.posts(t))
	resp := a.post(t, c, "/criar_postagem", url.Values{"titulo": {title}, "review": {"Review de " + title}, "nota": {"8"}})
	require.Equal(t, http.StatusSeeOther, resp.Status)

	posts := a.posts(t)
	require.Len(t, posts, before+1)
	return posts[len(posts)-1]
}

func (a *testApp) createComment(t *testing.T, c *http.Client, postID int64, content string) *models.Comment {
	t.Helper()
	resp := a.post(t, c, postPath(postID), url.Values{"conteudo": {content}})
	require.Equal(t, http.StatusSeeOther, resp.Status)

	comments := a.comments(t, postID)
	require.NotEmpty(t, comments)
	return comments[len(comments)-1]
}

// sessionCookie returns the session cookie c currently holds, or nil.
func (a *testApp) sessionCookie(t *testing.T, c *http.Client) *http.Cookie {
	t.Helper()
	u, err := url.Parse(a.server.URL)
	require.NoError(t, err)
	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}

// clientWithCookie returns a fresh client holding only cookie.
func (a *testApp) clientWithCookie(t *testing.T, cookie *http.Cookie) *http.Client {
	t.Helper()
	c := a.client(t)
	u, err := url.Parse(a.server.URL)
	require.NoError(t, err)
	c.Jar.SetCookies(u, []*http.Cookie{{Name: cookie.Name, Value: cookie.Value}})
	return c
}

func postPath(id int64) string {
	return "/postagem/" + strconv.FormatInt(id, 10)
}
