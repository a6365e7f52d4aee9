package middleware

import (
	"context"
	"net/http"

	"tracker/src/models"
	"tracker/src/utils"

	"github.com/go-chi/jwtauth"
)

type identityKey struct{}

// WithIdentity stores the authenticated user on the context.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFromContext returns the authenticated user, if any.
func IdentityFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey{}).(*models.User)
	return user, ok && user != nil && user.ID != ""
}

// Identity turns a verified JWT into the request identity. Requests without
// a valid token pass through anonymous; the gate decides what to do with them.
func Identity(tokenAuth *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	verify := jwtauth.Verifier(tokenAuth)
	return func(next http.Handler) http.Handler {
		return verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				if err != nil && err != jwtauth.ErrNoTokenFound {
					utils.LoggerFromContext(r.Context()).WithError(err).Debug("rejected token")
				}
				next.ServeHTTP(w, r)
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				next.ServeHTTP(w, r)
				return
			}
			email, _ := claims["email"].(string)
			ctx := WithIdentity(r.Context(), &models.User{ID: sub, Email: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		}))
	}
}

// RequireLogin redirects anonymous requests to loginPath.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IssueToken signs a token for userID. The identity provider normally does
// this; it is exposed for tooling and tests.
func IssueToken(tokenAuth *jwtauth.JWTAuth, userID string) (string, error) {
	_, tokenString, err := tokenAuth.Encode(map[string]interface{}{"sub": userID})
	return tokenString, err
}
