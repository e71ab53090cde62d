package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/WilliamRochafnpe/FNPE/internal/export"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/ranking"
	"github.com/gorilla/mux"
)

const defaultRankingLimit = 10

// rankingEntry is a leaderboard entry enriched with the athlete's identity.
type rankingEntry struct {
	UserID        string  `json:"userId"`
	Nome          string  `json:"nome"`
	IDNorteNumero string  `json:"idNorteNumero,omitempty"`
	Estado        string  `json:"estado,omitempty"`
	Score         float64 `json:"score"`
	Placement     int     `json:"placement"`
}

func enrichEntries(db *models.Database, entries []ranking.Entry) []rankingEntry {
	out := make([]rankingEntry, 0, len(entries))
	for _, e := range entries {
		enriched := rankingEntry{UserID: e.UserID, Score: e.Score, Placement: e.Placement}
		if user := db.UserByID(e.UserID); user != nil {
			enriched.Nome = user.NomeCompleto
			enriched.IDNorteNumero = user.IDNorteNumero
			enriched.Estado = user.Estado
		}
		out = append(out, enriched)
	}
	return out
}

// handleOverallRanking handles GET /api/rankings/overall?limit= - highest
// career totals across the region.
func (s *Server) handleOverallRanking(w http.ResponseWriter, r *http.Request, _ *models.User) {
	limit := defaultRankingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	db := s.sessions.DB()
	respondJSON(w, http.StatusOK, enrichEntries(db, ranking.TopScores(db, limit)))
}

// stateRankingParams extracts and validates the uf/category pair shared by
// the state ranking view and its CSV export.
func stateRankingParams(r *http.Request) (string, models.Category, error) {
	uf := strings.ToUpper(mux.Vars(r)["uf"])
	category := models.Category(strings.ToUpper(r.URL.Query().Get("category")))
	if category == "" {
		return "", "", fmt.Errorf("category query parameter is required")
	}
	if !models.IsValidCategory(category) {
		return "", "", fmt.Errorf("unknown category %q", category)
	}
	return uf, category, nil
}

// handleStateRanking handles GET /api/rankings/state/{uf}?category= -
// career totals within one state and category, with tie placements.
func (s *Server) handleStateRanking(w http.ResponseWriter, r *http.Request, _ *models.User) {
	uf, category, err := stateRankingParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
		return
	}

	db := s.sessions.DB()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"estado":    uf,
		"categoria": category,
		"entries":   enrichEntries(db, ranking.StateLeaderboard(db, uf, category)),
	})
}

// handleStateRankingExport handles GET /api/rankings/state/{uf}/export?category= -
// the same leaderboard as a CSV download.
func (s *Server) handleStateRankingExport(w http.ResponseWriter, r *http.Request, _ *models.User) {
	uf, category, err := stateRankingParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
		return
	}

	db := s.sessions.DB()
	rows := export.LeaderboardRows(db, ranking.StateLeaderboard(db, uf, category))

	filename := fmt.Sprintf("ranking-%s-%s.csv", strings.ToLower(uf), strings.ToLower(string(category)))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(export.CSV(rows)))
}

// handleAthleteStats handles GET /api/athletes/{id}/stats - career total and
// podium count for one athlete.
func (s *Server) handleAthleteStats(w http.ResponseWriter, r *http.Request, _ *models.User) {
	user, err := s.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	db := s.sessions.DB()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"userId":      user.ID,
		"nome":        user.NomeCompleto,
		"totalPontos": ranking.TotalScore(db.Results, user.ID),
		"podios":      ranking.PodiumCount(db.Results, user.ID),
	})
}
