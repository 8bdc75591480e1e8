package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/robalobadob/pairs/internal/scores"
)

// scoresRes is returned by /api/scores.
type scoresRes struct {
	Scores []scores.Record `json:"scores"`
}

// handleScores returns the fastest runs, best first.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.Top(r.Context(), scores.DefaultLimit)
	if err != nil {
		fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []scores.Record{}
	}
	_ = json.NewEncoder(w).Encode(scoresRes{Scores: rows})
}
