package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/itchan-dev/itboard/internal/domain"
	"github.com/itchan-dev/itboard/internal/flash"
	"github.com/itchan-dev/itboard/internal/logger"
)

const SessionCookie = "session"

// Key to store the user in the request context
type key int

const userKey key = 0

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

type Auth struct {
	sessions      SessionResolver
	flash         *flash.Flash
	secureCookies bool
}

func NewAuth(sessions SessionResolver, flash *flash.Flash, secureCookies bool) *Auth {
	return &Auth{sessions: sessions, flash: flash, secureCookies: secureCookies}
}

// Load resolves the session cookie and stores the user, if any, in the
// request context. It never rejects a request.
func (a *Auth) Load() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := a.sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				// Session store trouble: serve the page anonymously.
				logger.Log.Error("failed to resolve session", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				ClearSessionCookie(w, a.secureCookies)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// NeedAuth sends anonymous visitors to the login page with a flash message.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUserFromContext(r) == nil {
				a.flash.Redirect(w, r, "/users/login", flash.ErrorCookie, "Please log in to continue")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the logged-in user or nil.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
