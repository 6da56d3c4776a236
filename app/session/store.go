// Package session keeps per-visitor state in badger behind a signed cookie
// that carries only the session ID.
package session

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	defaultMaxAge = 86400 * 7 // 7 days
	keyPrefix     = "session:"
)

var errSessionNotFound = errors.New("session not found")

// BadgerStore stores sessions in badger.
type BadgerStore struct {
	db      *badger.DB
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

// NewBadgerStore creates a new badger store. keyPairs are passed to
// securecookie.CodecsFromPairs.
func NewBadgerStore(db *badger.DB, keyPairs ...[]byte) *BadgerStore {
	return &BadgerStore{
		db:     db,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// MaxAge sets the lifetime of new sessions and their backing entries.
func (s *BadgerStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

// Get returns the session cached in the request registry, loading it on
// first use.
func (s *BadgerStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie, or returns a fresh one
// when the cookie is missing, forged or points at an expired entry.
func (s *BadgerStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	err = s.load(session)
	switch {
	case err == nil:
		session.IsNew = false
	case errors.Is(err, errSessionNotFound):
		session.ID = ""
	default:
		session.ID = ""
		return session, err
	}
	return session, nil
}

// Save persists the session and writes the cookie. A negative MaxAge deletes
// the entry and expires the cookie.
func (s *BadgerStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.delete(session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.save(session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *BadgerStore) save(session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("failed to encode session values: %w", err)
	}

	maxAge := session.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.Options.MaxAge
	}

	entry := badger.NewEntry([]byte(keyPrefix+session.ID), buf.Bytes()).
		WithTTL(time.Duration(maxAge) * time.Second)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStore) load(session *sessions.Session) error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + session.ID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return errSessionNotFound
	}
	if err != nil {
		return err
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		return fmt.Errorf("failed to decode session data: %w", err)
	}
	return nil
}

func (s *BadgerStore) delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + id))
	})
}
