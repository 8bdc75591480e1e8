// internal/httpserver/routes_game.go
//
// Game endpoint:
//   - GET|POST /api/game?action=reset
//   - GET|POST /api/game?action=reveal&index=N   (legacy clients send `with=N`)
//
// Both return the projected board (see game.View). Hidden tile kinds never
// leave the server.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/pairs/internal/play"
	"github.com/robalobadob/pairs/internal/store"
)

var errBadIndex = errors.New("index must be an integer")

// handleGame runs one action against the caller's stored party.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("action")
	action, err := play.ParseAction(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Cannot apply action %q.", raw))
		return
	}

	index := 0
	if action == play.ActionReveal {
		if index, err = tileIndex(r); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	sid := sessionID(r.Context())
	unlock := s.locks.lock(sid)
	defer unlock()

	g := play.New(s.engine, store.NewSession(s.sessions, sid))
	st, err := g.Run(r.Context(), action, index)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := g.Save(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	view, err := g.View()
	if err != nil {
		fail(w, r, err)
		return
	}

	ev := hlog.FromRequest(r).Debug()
	if st.Winner && action == play.ActionReveal && st.FinalScore != nil {
		ev = hlog.FromRequest(r).Info().Int("elapsed_seconds", st.FinalScore.ElapsedSeconds)
	}
	ev.Str("action", action.String()).Int("index", index).Str("status", st.Status()).Msg("game action")

	_ = json.NewEncoder(w).Encode(view)
}

// tileIndex reads the reveal target from `index` or its alias `with`.
func tileIndex(r *http.Request) (int, error) {
	v := r.FormValue("index")
	if v == "" {
		v = r.FormValue("with")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errBadIndex
	}
	return n, nil
}
