// internal/httpserver/server.go
//
// HTTP server wiring for the Pairs backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/api/scores".
//   - Game endpoint (session cookie): GET|POST /api/game.
//   - Mapping domain errors to HTTP statuses.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the session cookie works).
//   - Every game request runs load → mutate → save under a per-session lock.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/game"
	"github.com/robalobadob/pairs/internal/play"
	"github.com/robalobadob/pairs/internal/scores"
	"github.com/robalobadob/pairs/internal/store"
)

// Options are the transport-level settings.
type Options struct {
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	ClientOrigin  string
	Secure        bool // Secure + SameSite=None cookies (production)
}

// Server bundles router, engine, session backend and score ledger.
type Server struct {
	r        *chi.Mux
	engine   *game.Engine
	sessions store.Backend
	ledger   scores.Ledger
	opts     Options
	locks    *sessionLocks
}

// New constructs a Server, installs middleware, and registers routes.
func New(e *game.Engine, sessions store.Backend, ledger scores.Ledger, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "pairs_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	s := &Server{
		r:        chi.NewRouter(),
		engine:   e,
		sessions: sessions,
		ledger:   ledger,
		opts:     opts,
		locks:    newSessionLocks(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))   // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"pairs-go","endpoints":["/health","GET|POST /api/game","GET /api/scores"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		r.With(s.withSession()).Get("/game", s.handleGame)
		r.With(s.withSession()).Post("/game", s.handleGame)
		r.Get("/scores", s.handleScores)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route "+r.URL.Path+" not found.")
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, `Oops, the method "`+r.Method+`" is not allowed for this route.`)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
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

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------- errors ------------------------------------

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeError renders the {"status","message"} error shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Status: status, Message: msg})
}

// statusFor maps domain errors to an HTTP status and a client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, play.ErrInvalidAction):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, game.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, play.ErrEmptyState):
		return http.StatusInternalServerError, "The game state has not been saved. Maybe an internal error ?"
	case errors.Is(err, game.ErrInvalidBoardConfiguration):
		return http.StatusInternalServerError, "The game state is invalid."
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// fail logs server-side faults and writes the mapped error.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, msg)
}
