package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tracker/src/api/middleware"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gated(tokenAuth *jwtauth.JWTAuth) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := middleware.IdentityFromContext(r.Context())
		_, _ = w.Write([]byte(user.ID))
	})
	return middleware.Identity(tokenAuth)(middleware.RequireLogin("/login")(final))
}

func TestIdentityAndRequireLogin(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte("secret"), nil)
	handler := gated(tokenAuth)

	t.Run("anonymous requests are redirected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("tokens signed with another key are redirected", func(t *testing.T) {
		token, err := middleware.IssueToken(jwtauth.New("HS256", []byte("other"), nil), "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("valid tokens pass with the subject as identity", func(t *testing.T) {
		token, err := middleware.IssueToken(tokenAuth, "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("the jwt cookie is accepted", func(t *testing.T) {
		token, err := middleware.IssueToken(tokenAuth, "bob")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "bob", rec.Body.String())
	})
}
