package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/ranking"
)

// handleDashboard handles GET /api/dashboard - the session user's personal
// numbers: career total, podiums and distinct events participated.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, user *models.User) {
	db := s.sessions.DB()

	events := make(map[string]bool)
	for _, result := range db.Results {
		if result.UserID == user.ID {
			events[result.EventID] = true
		}
	}

	pending := 0
	for _, request := range s.membership.ListForUser(r.Context(), user.ID) {
		if request.Status == models.RequestPending {
			pending++
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":                  user,
		"totalPontos":           ranking.TotalScore(db.Results, user.ID),
		"podios":                ranking.PodiumCount(db.Results, user.ID),
		"eventosParticipados":   len(events),
		"idNorteStatus":         user.IDNorteStatus,
		"solicitacoesPendentes": pending,
	})
}

// dashboardFilters parses state/category/from/to query parameters. The
// window defaults to the trailing twelve months.
func (s *Server) dashboardFilters(r *http.Request) (ranking.Filters, error) {
	now := s.now()
	f := ranking.Filters{
		State:    strings.ToUpper(r.URL.Query().Get("state")),
		Category: models.Category(strings.ToUpper(r.URL.Query().Get("category"))),
		From:     now.AddDate(-1, 0, 0),
		To:       now,
	}
	if f.Category != "" && !models.IsValidCategory(f.Category) {
		return f, errInvalidCategory
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, errInvalidDate
		}
		f.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, errInvalidDate
		}
		f.To = t
	}
	return f, nil
}

var (
	errInvalidCategory = &filterError{"unknown category"}
	errInvalidDate     = &filterError{"dates must use the YYYY-MM-DD format"}
)

type filterError struct{ msg string }

func (e *filterError) Error() string { return e.msg }

// handleAdminDashboard handles GET /api/admin/dashboard - federation-wide
// KPIs, growth versus the preceding window, activity per state, the trailing
// six-month series and its peak month.
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request, _ *models.User) {
	filters, err := s.dashboardFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
		return
	}

	db := s.sessions.DB()
	series := ranking.MonthlySeries(db, s.now(), 6)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kpis":             ranking.ComputeKPIs(db, filters),
		"eventosPorEstado": ranking.EventsByState(db),
		"serieMensal":      series,
		"picoMes":          ranking.PeakMonth(series),
	})
}
