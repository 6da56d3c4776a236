package session

import (
	"context"
	"encoding/gob"
	"net/http"

	"reeltalk/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "reeltalk"

const (
	keyUserID   = "usuario_id"
	keyUsername = "nome_usuario"
	keyIsAdmin  = "eh_administrador"
	keyContact  = "contato"
)

func init() {
	gob.Register(PendingContact{})
}

// Identity is the signed-in user as recorded at login.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// PendingContact is what a visitor typed at registration, minus the
// password. It pre-fills the login form until the next successful login.
type PendingContact struct {
	Username  string
	Name      string
	Email     string
	Birthdate string
}

// Manager loads and saves sessions for requests.
type Manager struct {
	store *BadgerStore
}

// NewManager returns a Manager whose sessions live in db for maxAge seconds.
func NewManager(db *badger.DB, maxAge int, keyPairs ...[]byte) *Manager {
	store := NewBadgerStore(db, keyPairs...)
	if maxAge > 0 {
		store.MaxAge(maxAge)
	}
	return &Manager{store: store}
}

// Load returns the request's session. A broken backing entry still yields a
// usable empty session alongside the error.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	raw, err := m.store.Get(r, CookieName)
	return &Session{raw: raw, r: r}, err
}

// Session wraps a gorilla session with typed accessors.
type Session struct {
	raw *sessions.Session
	r   *http.Request
}

// Identity returns the signed-in user, or nil for an anonymous visitor.
func (s *Session) Identity() *Identity {
	id, ok := s.raw.Values[keyUserID].(int64)
	if !ok {
		return nil
	}
	username, _ := s.raw.Values[keyUsername].(string)
	isAdmin, _ := s.raw.Values[keyIsAdmin].(bool)
	return &Identity{UserID: id, Username: username, IsAdmin: isAdmin}
}

// Actor returns the authorization subject for this session.
func (s *Session) Actor() models.Actor {
	ident := s.Identity()
	if ident == nil {
		return models.Actor{}
	}
	id := ident.UserID
	return models.Actor{UserID: &id, IsAdmin: ident.IsAdmin}
}

// Renew drops the backing entry so the next Save issues a fresh session ID.
// Values already set are kept.
func (s *Session) Renew() error {
	if store, ok := s.raw.Store().(*BadgerStore); ok && s.raw.ID != "" {
		if err := store.delete(s.raw.ID); err != nil {
			return err
		}
	}
	s.raw.ID = ""
	s.raw.IsNew = true
	return nil
}

// SignIn records the user and drops any pending contact.
func (s *Session) SignIn(ident Identity) {
	s.raw.Values[keyUserID] = ident.UserID
	s.raw.Values[keyUsername] = ident.Username
	s.raw.Values[keyIsAdmin] = ident.IsAdmin
	delete(s.raw.Values, keyContact)
}

func (s *Session) SetPendingContact(c PendingContact) {
	s.raw.Values[keyContact] = c
}

// PendingContact returns the contact stored at registration, if any.
func (s *Session) PendingContact() (PendingContact, bool) {
	c, ok := s.raw.Values[keyContact].(PendingContact)
	return c, ok
}

// Clear empties the session and marks it for deletion on Save.
func (s *Session) Clear() {
	for k := range s.raw.Values {
		delete(s.raw.Values, k)
	}
	s.raw.Options.MaxAge = -1
}

// Save writes the session back. Detached sessions are not persisted.
func (s *Session) Save(w http.ResponseWriter) error {
	if s.r == nil {
		return nil
	}
	return s.raw.Save(s.r, w)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx. Without one it returns an
// anonymous session that is never persisted.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{raw: sessions.NewSession(nil, CookieName)}
}
