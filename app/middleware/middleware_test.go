package middleware

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"reeltalk/app/database"
	"reeltalk/app/session"
	"reeltalk/logger"

	"github.com/dgraph-io/badger/v4"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitLoggerWithWriter(&buf, logging.DEBUG)
	t.Cleanup(func() { logger.InitLoggerWithWriter(os.Stderr, logging.INFO) })
	return &buf
}

func TestLogger(t *testing.T) {
	buf := captureLog(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	logOutput := buf.String()
	assert.Contains(t, logOutput, "GET")
	assert.Contains(t, logOutput, "/test")
	assert.Contains(t, logOutput, "303")
	assert.Contains(t, logOutput, "took")
}

func TestRecoverer(t *testing.T) {
	buf := captureLog(t)

	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error\n", w.Body.String())
	assert.Contains(t, buf.String(), "test panic")
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDBScopeReleasesConnection(t *testing.T) {
	db := openTestDB(t)

	var inUse int
	var scoped bool
	handler := DBScope(db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inUse = db.Stats().InUse
		_, scoped = database.Handle(r.Context(), db).(*sql.Conn)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.True(t, scoped)
	assert.Equal(t, 1, inUse)
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestDBScopeReleasesConnectionOnPanic(t *testing.T) {
	captureLog(t)
	db := openTestDB(t)

	handler := Recoverer(DBScope(db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestSessions(t *testing.T) {
	bdb, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { bdb.Close() })
	manager := session.NewManager(bdb, 0, []byte("0123456789abcdef0123456789abcdef"))

	var got *session.Session
	handler := Sessions(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
		got.SignIn(session.Identity{UserID: 4, Username: "ana"})
		require.NoError(t, got.Save(w))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.NotNil(t, got)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookies[0])
	handler = Sessions(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got.Identity())
	assert.Equal(t, int64(4), got.Identity().UserID)
}
