package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	domainAccount "readspace/internal/domain/account"
)

type contextKey string

const accountContextKey contextKey = "account"

const (
	sessionCookieName = "readspace_session"
	sessionTTL        = 24 * time.Hour
)

// Session is the signed-in identity attached to a request.
type Session struct {
	AccountID string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

// SessionStore keeps sessions in process memory. A restart signs everyone
// out, which is acceptable for a single-practitioner site.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Create mints a token for the account and records the session.
// PRE: accountID, email, role are non-empty
// POST: the session is retrievable by the returned token until it expires
func (ss *SessionStore) Create(accountID, email, name, role string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	ss.sessions[token] = Session{
		AccountID: accountID,
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now(),
	}
	ss.mu.Unlock()
	return token, nil
}

// Get looks up a live session. Expired sessions are dropped on read.
// PRE: token is non-empty
// POST: ok is false for unknown or expired tokens
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	sess, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Since(sess.CreatedAt) > sessionTTL {
		ss.Delete(token)
		return Session{}, false
	}
	return sess, true
}

// Delete forgets a session.
// PRE: token is non-empty
// POST: the token no longer resolves
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	delete(ss.sessions, token)
	ss.mu.Unlock()
}

func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Auth resolves the session cookie into a context session. It never blocks
// a request; RequireAuth and RequireRole do the gating.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				if sess, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth sends anonymous requests to the login page, carrying the
// requested URL so login can return the user there afterwards.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginURL builds the login path with a return-to parameter.
func LoginURL(returnTo string) string {
	if returnTo == "" || returnTo == "/" {
		return "/login"
	}
	return "/login?redirect=" + url.QueryEscape(returnTo)
}

// RequireRole admits only sessions holding one of the given roles.
// Anonymous requests go to login; wrong roles get a 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			if !slices.Contains(roles, sess.Role) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session placed by Auth, if any.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(accountContextKey).(Session)
	return sess, ok
}

// ContextWithSession attaches a session to a context. Tests use this to
// exercise handlers without running the middleware chain.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, accountContextKey, sess)
}

// SetSessionCookie writes the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   false, // local development runs plain HTTP
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// IsRole reports whether the current session holds one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	sess, ok := GetSessionFromContext(ctx)
	return ok && slices.Contains(roles, sess.Role)
}

// IsAdmin reports whether the current session is an admin.
func IsAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccount.RoleAdmin)
}

// IsPractitionerOrAdmin reports whether the current session may manage pathways.
func IsPractitionerOrAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccount.RoleAdmin, domainAccount.RolePractitioner)
}
