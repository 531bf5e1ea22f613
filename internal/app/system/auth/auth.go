// Package auth holds the browser session: who is signed in, under what
// active role, with which cached roles and skills.
//
// The whole session is one JSON blob inside a signed gorilla cookie. The
// SessionManager decodes it into the request context on every request and
// writes it back whenever a handler changes it. A blob that fails to decode
// is treated as an empty session, never as an error.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// blobKey is the single session value holding the serialized Session.
const blobKey = "session"

// Session is the immutable per-request snapshot of the signed-in state.
// Handlers read it via CurrentSession and persist changes with
// SessionManager.Save.
type Session struct {
	Token      string      `json:"token"`
	User       models.User `json:"user"`
	Roles      []string    `json:"roles"`
	Skills     []string    `json:"skills"`
	ActiveRole string      `json:"active_role"`
}

// SignedIn reports whether the session carries both a token and a user.
func (s Session) SignedIn() bool {
	return s.Token != "" && s.User.UserID != 0
}

// HasRole reports whether the session's cached roles include role.
func (s Session) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range s.Roles {
		if strings.ToLower(r) == role {
			return true
		}
	}
	return false
}

type ctxKey string

const sessionCtxKey ctxKey = "session"

// CurrentSession returns the request's session snapshot. The second return
// is false for anonymous requests.
func CurrentSession(r *http.Request) (Session, bool) {
	s, ok := r.Context().Value(sessionCtxKey).(Session)
	return s, ok && s.SignedIn()
}

// WithTestSession injects a session into the request context, bypassing the
// cookie round trip. Test helper only.
func WithTestSession(r *http.Request, s Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey, s))
}

// SessionManager owns the cookie store and the middleware around it.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. In production
// (secure=true) cookies are Secure with SameSite=Lax; in dev over plain
// http they are accepted without the Secure flag.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide >=32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store (used by logout to match
// deletion-cookie options).
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the raw cookie session, creating an empty one if the
// cookie is missing or fails to decode.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Decode extracts the Session snapshot from the request cookie. Missing or
// malformed blobs hydrate to the zero Session.
func (sm *SessionManager) Decode(r *http.Request) Session {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// A tampered or re-keyed cookie decodes to signed out, not an error
		// page. Distinguish signature failures for the debug log.
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Debug("session cookie failed signature check", zap.Error(err))
		} else {
			sm.log.Debug("session cookie decode failed", zap.Error(err))
		}
		return Session{}
	}
	blob, ok := sess.Values[blobKey].(string)
	if !ok || blob == "" {
		return Session{}
	}
	var s Session
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		sm.log.Warn("session blob is malformed; treating as signed out", zap.Error(err))
		return Session{}
	}
	return s
}

// Save serializes the session back into the cookie. When both the token and
// the user are gone the cookie is deleted outright instead of being written
// empty.
func (sm *SessionManager) Save(w http.ResponseWriter, r *http.Request, s Session) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// A bad existing cookie still lets us overwrite with a fresh one.
		sm.log.Debug("session cookie decode failed on save", zap.Error(err))
	}

	if s.Token == "" && s.User.UserID == 0 {
		return sm.Clear(w, r)
	}

	blob, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	sess.Values[blobKey] = string(blob)
	return sess.Save(r, w)
}

// Clear expires the session cookie immediately.
func (sm *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSession injects the decoded session into the request context so
// handlers can call CurrentSession.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := sm.Decode(r)
		if s.SignedIn() {
			r = r.WithContext(context.WithValue(r.Context(), sessionCtxKey, s))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn gates a route on a signed-in session.
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentSession(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireRole gates a route on the session's active role. Signed-out
// callers get login-redirect semantics; signed-in callers with the wrong
// active role get 403 semantics.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := CurrentSession(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}

			if _, has := set[strings.ToLower(s.ActiveRole)]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
