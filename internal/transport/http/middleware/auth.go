package middleware

import (
	"context"
	"net/http"

	"github.com/go-questionnaire-nosql/internal/application/auth"
	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/go-questionnaire-nosql/internal/transport/http/httperr"
)

type contextKey string

const UserKey contextKey = "user"

// Authenticator is the part of the credential service the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, p auth.Presented) (*domain.User, error)
	AuthenticateOptional(ctx context.Context, p auth.Presented) *domain.User
}

// Presented collects the credential material from the auth cookie and the
// Authorization header.
func Presented(r *http.Request, cookieName string) auth.Presented {
	p := auth.Presented{Authorization: r.Header.Get("Authorization")}
	if c, err := r.Cookie(cookieName); err == nil {
		p.Cookie = c.Value
	}
	return p
}

// Auth rejects the request unless a credential resolves to a known user, and
// injects that user into the context.
func Auth(svc Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := svc.Authenticate(r.Context(), Presented(r, cookieName))
			if err != nil {
				httperr.Write(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, u)))
		})
	}
}

// Optional injects the user when a credential resolves and otherwise lets the
// request through anonymously.
func Optional(svc Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := svc.AuthenticateOptional(r.Context(), Presented(r, cookieName)); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), UserKey, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok && u != nil
}
