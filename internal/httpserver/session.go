package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

// ctxSessionKey is the context key type for the session id.
type ctxSessionKey struct{}

// sessionID returns the id installed by withSession.
func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxSessionKey{}).(string)
	return id
}

// withSession resolves the caller's session from the signed cookie, minting
// a new session (and cookie) when it is missing, forged or expired.
func (s *Server) withSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if tok := s.sessionToken(r); tok != "" {
				id, _ = s.parseSession(tok)
			}
			if id == "" {
				id = uuid.NewString()
				tok, exp, err := s.signSession(id)
				if err != nil {
					hlog.FromRequest(r).Error().Err(err).Msg("sign session")
					writeError(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				s.setSessionCookie(w, tok, exp)
			}
			ctx := context.WithValue(r.Context(), ctxSessionKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken reads the token from `Authorization: Bearer` or the cookie.
func (s *Server) sessionToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// signSession creates an HS256 JWT whose subject is the session id.
func (s *Server) signSession(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.opts.SessionSecret))
	return ss, exp, err
}

// parseSession verifies a token and returns its session id.
func (s *Server) parseSession(tok string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", false
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", false
	}
	return claims.Subject, true
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// sessionLocks serializes requests that share a session id.
// Entries are reference counted and dropped once nobody holds or waits on them.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: make(map[string]*sessionLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	e := l.m[id]
	if e == nil {
		e = &sessionLock{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

// held reports how many ids currently have a lock entry.
func (l *sessionLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
