package http

import (
	"context"
	"net/http"
	"regexp"

	"github.com/fjod/clothify/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "clothify_session"

	sessionCookieMaxAge = 365 * 24 * 60 * 60
)

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

type ctxKey int

const sessionKey ctxKey = iota

// SessionMiddleware resolves the browser session from the X-Session-ID header,
// then the session cookie, and starts a new session when neither carries a
// usable id.
func SessionMiddleware(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if !validSessionID.MatchString(id) {
				id = ""
				if c, err := r.Cookie(SessionCookie); err == nil && validSessionID.MatchString(c.Value) {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(SessionHeader, id)
			ctx := context.WithValue(r.Context(), sessionKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey).(string); ok {
		return id
	}
	return ""
}

// LogFieldsMiddleware attaches the request and session ids to the request
// logger. It must run after RequestID and SessionMiddleware.
func LogFieldsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithFields(r.Context(), logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"session":    SessionID(r.Context()),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
