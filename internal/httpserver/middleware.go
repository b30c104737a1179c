package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/codebreaker/internal/gamelog"
)

const (
	anonCookieName = "codebreaker_anon"
	anonCookieTTL  = 180 * 24 * time.Hour
)

// authUser is placed into request context by the auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info().
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r.WithContext(s.logger.WithContext(r.Context())))
	})
}

// bearerOrCookie extracts a token from the Authorization header or the auth
// cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// userFromToken resolves a token to a still-existing user.
func (s *Server) userFromToken(ctx context.Context, tok string) (*authUser, bool) {
	claims, err := s.tokens.Parse(tok)
	if err != nil {
		return nil, false
	}
	u, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, false
	}
	return &authUser{ID: u.ID, Username: u.Username}, true
}

// withOptionalAuth decorates requests with the user when a valid token is
// present. It never rejects; guests pass through.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := s.bearerOrCookie(r); tok != "" {
				if u, ok := s.userFromToken(r.Context(), tok); ok {
					r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid token.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := s.bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}
			u, ok := s.userFromToken(r.Context(), tok)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// cookie builds a cookie with the deployment's security attributes.
func (s *Server) cookie(name, value string) *http.Cookie {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}

// ensureAnonID returns the anonymous cookie value, setting a new one if
// absent.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	c := s.cookie(anonCookieName, id)
	c.Expires = s.now().Add(anonCookieTTL)
	c.MaxAge = int(anonCookieTTL.Seconds())
	http.SetCookie(w, c)
	return id
}

// owner identifies the caller for game ownership and the ledger. The key is
// "u:<id>" for users and "a:<id>" for guests.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, gamelog.Owner) {
	if me := currentUser(r); me != nil {
		return "u:" + me.ID, gamelog.Owner{UserID: me.ID}
	}
	anon := s.ensureAnonID(w, r)
	return "a:" + anon, gamelog.Owner{AnonymousID: anon}
}

// owns reports whether the caller may act on a game stored under key. A
// guest who later signs in keeps access through the anonymous cookie.
func (s *Server) owns(r *http.Request, key string) bool {
	if me := currentUser(r); me != nil && key == "u:"+me.ID {
		return true
	}
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" && key == "a:"+c.Value {
		return true
	}
	return false
}
