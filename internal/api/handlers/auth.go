package handlers

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/rsystem/internal/present"
	"github.com/wonny/rsystem/pkg/logger"
)

// SessionCookie carries the session token issued at login
const SessionCookie = "rsystem_session"

// Sessions holds issued tokens until they expire
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates an in-memory session store
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a new session token
func (s *Sessions) Issue() string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = s.now().Add(s.ttl)
	return token
}

// Valid reports whether token is known and unexpired; expired tokens are dropped
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if !s.now().Before(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke forgets token
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// AuthHandler gates the dashboard behind a shared password list.
// With no passwords configured the gate is open.
// ⭐ SSOT: access control decisions are made here only
type AuthHandler struct {
	passwords []string
	sessions  *Sessions
	renderer  *present.Renderer
	logger    *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(passwords []string, sessions *Sessions, renderer *present.Renderer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		passwords: passwords,
		sessions:  sessions,
		renderer:  renderer,
		logger:    log,
	}
}

// Enabled reports whether any password is configured
func (h *AuthHandler) Enabled() bool {
	return len(h.passwords) > 0
}

// check compares against every password so timing does not reveal which one matched
func (h *AuthHandler) check(candidate string) bool {
	matched := 0
	for _, p := range h.passwords {
		matched |= subtle.ConstantTimeCompare([]byte(candidate), []byte(p))
	}
	return matched == 1
}

// LoginForm shows the password form
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, false, safeNext(r.URL.Query().Get("next")))
}

// Login checks the password and issues a session cookie
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, true, "/")
		return
	}
	next := safeNext(r.PostForm.Get("next"))

	if !h.check(r.PostForm.Get("password")) {
		h.logger.WithField("remote", r.RemoteAddr).Warn("Login rejected")
		h.renderLogin(w, http.StatusUnauthorized, true, next)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    h.sessions.Issue(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.ttl.Seconds()),
	})
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout drops the session
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Revoke(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Require lets requests with a valid session through.
// API paths get 401 JSON; pages are redirected to the login form.
func (h *AuthHandler) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		if c, err := r.Cookie(SessionCookie); err == nil && h.sessions.Valid(c.Value) {
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/") {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, status int, failed bool, next string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Login(w, present.LoginPage{Failed: failed, Next: next}); err != nil {
		h.logger.WithError(err).Error("Failed to render login")
	}
}

// safeNext keeps redirects on this site
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
