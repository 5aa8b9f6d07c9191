package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rsystem/internal/present"
	"github.com/wonny/rsystem/pkg/logger"
)

func newTestAuth(t *testing.T, passwords ...string) *AuthHandler {
	t.Helper()
	renderer, err := present.NewRenderer()
	require.NoError(t, err)
	return NewAuthHandler(passwords, NewSessions(time.Hour), renderer, logger.Nop())
}

func postLogin(h *AuthHandler, password, next string) *httptest.ResponseRecorder {
	form := url.Values{"password": {password}, "next": {next}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(w, r)
	return w
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSessions(t *testing.T) {
	s := NewSessions(time.Hour)
	now := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token := s.Issue()
	assert.True(t, s.Valid(token))
	assert.False(t, s.Valid("unknown"))
	assert.False(t, s.Valid(""))

	now = now.Add(time.Hour)
	assert.False(t, s.Valid(token))

	other := s.Issue()
	s.Revoke(other)
	assert.False(t, s.Valid(other))
}

func TestLogin_AcceptsAnyConfiguredPassword(t *testing.T) {
	h := newTestAuth(t, "alpha", "beta")

	w := postLogin(h, "beta", "/?day=yesterday")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?day=yesterday", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, h.sessions.Valid(cookies[0].Value))
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	h := newTestAuth(t, "alpha")

	w := postLogin(h, "gamma", "/")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.Contains(t, w.Body.String(), "パスワードが違います")
}

func TestLogin_OffsiteNextIsIgnored(t *testing.T) {
	h := newTestAuth(t, "alpha")

	w := postLogin(h, "alpha", "//evil.example.com/")
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRequire(t *testing.T) {
	h := newTestAuth(t, "alpha")
	gated := h.Require(okHandler)

	t.Run("page redirects to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		gated.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?day=today", nil))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2F%3Fday%3Dtoday", w.Header().Get("Location"))
	})

	t.Run("api gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		gated.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ranking", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid session passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: h.sessions.Issue()})
		w := httptest.NewRecorder()
		gated.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequire_OpenWithoutPasswords(t *testing.T) {
	h := newTestAuth(t)
	assert.False(t, h.Enabled())

	w := httptest.NewRecorder()
	h.Require(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
