package feed

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie that binds a browser to its mounted fragment.
	SessionName = "newsapp_session"

	mountIDKey = "mount_id"
)

// NewCookieStore creates the session store. An empty secret is replaced with a random
// key, so sessions do not survive a restart. secure marks the cookie Secure and
// SameSite=None so host shells on other sites can send it.
func NewCookieStore(secret []byte, secure bool) (*sessions.CookieStore, error) {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("generate session key: entropy source failed")
		}
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}
	return store, nil
}

// sessionBinder reads and writes the mount id stored in the session cookie.
type sessionBinder struct {
	store sessions.Store
}

// mountID returns the bound mount id, or "" when the cookie is missing or invalid.
func (b sessionBinder) mountID(r *http.Request) string {
	// 署名不一致などのエラー時も新しいセッションが返るので空 ID として扱う
	session, _ := b.store.Get(r, SessionName)
	if session == nil {
		return ""
	}
	id, _ := session.Values[mountIDKey].(string)
	return id
}

// bind stores id in the session cookie. It must run before the response body is written.
func (b sessionBinder) bind(w http.ResponseWriter, r *http.Request, id string) error {
	session, _ := b.store.Get(r, SessionName)
	if session == nil {
		return errors.New("session store returned no session")
	}
	session.Values[mountIDKey] = id
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// unbind expires the session cookie.
func (b sessionBinder) unbind(w http.ResponseWriter, r *http.Request) error {
	session, _ := b.store.Get(r, SessionName)
	if session == nil {
		return nil
	}
	delete(session.Values, mountIDKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	return nil
}
