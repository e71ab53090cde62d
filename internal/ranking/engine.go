// Package ranking is the derivation engine: pure functions over the
// document's users, events and results. Placements, totals and dashboard
// aggregates are recomputed on every read; a stored colocacao field is
// never trusted.
package ranking

import (
	"sort"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// Region is the fixed list of federation states.
var Region = []string{"AP", "PA", "AM", "AC", "RR", "RO", "TO"}

// StateNames maps state codes to display names.
var StateNames = map[string]string{
	"AC": "Acre",
	"AM": "Amazonas",
	"AP": "Amapá",
	"PA": "Pará",
	"RO": "Rondônia",
	"RR": "Roraima",
	"TO": "Tocantins",
}

// TotalScore sums the scores of every result belonging to the user, across
// all events and categories. A user with no results scores 0.
func TotalScore(results []models.EventResult, userID string) float64 {
	total := 0.0
	for _, r := range results {
		if r.UserID == userID {
			total += r.Pontuacao
		}
	}
	return total
}

// Placement computes a result's rank within its (event, category) bucket:
// 1 plus the number of results in the bucket with a strictly greater score.
// Tied scores share a placement and the sequence skips after a tie
// ([100, 100, 80] places [1, 1, 3]).
func Placement(results []models.EventResult, target models.EventResult) int {
	placement := 1
	for _, r := range results {
		if r.EventID == target.EventID && r.Categoria == target.Categoria && r.Pontuacao > target.Pontuacao {
			placement++
		}
	}
	return placement
}

// WithPlacements returns the results of one (event, category) bucket sorted
// by score descending, each annotated with its derived placement.
func WithPlacements(results []models.EventResult, eventID string, category models.Category) []models.EventResult {
	var bucket []models.EventResult
	for _, r := range results {
		if r.EventID == eventID && r.Categoria == category {
			bucket = append(bucket, r)
		}
	}

	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].Pontuacao > bucket[j].Pontuacao
	})
	for i := range bucket {
		bucket[i].Colocacao = Placement(bucket, bucket[i])
	}
	return bucket
}

// PodiumCount counts the user's results whose derived placement within
// their own (event, category) bucket is 3 or better.
func PodiumCount(results []models.EventResult, userID string) int {
	count := 0
	for _, r := range results {
		if r.UserID != userID {
			continue
		}
		if Placement(results, r) <= 3 {
			count++
		}
	}
	return count
}

// Entry is one row of a leaderboard: career-cumulative score within the
// queried scope, with the tie rule applied over aggregated totals.
type Entry struct {
	UserID    string  `json:"userId"`
	Score     float64 `json:"score"`
	Placement int     `json:"placement"`
}

// StateLeaderboard ranks athletes within one state and category. Scores are
// summed across all of the state's events (career-cumulative), sorted
// descending, and the tie-placement rule is applied to the totals.
func StateLeaderboard(db *models.Database, uf string, category models.Category) []Entry {
	stateEvents := make(map[string]bool)
	for _, e := range db.Events {
		if e.Estado == uf {
			stateEvents[e.ID] = true
		}
	}

	totals := make(map[string]float64)
	var order []string
	for _, r := range db.Results {
		if !stateEvents[r.EventID] || r.Categoria != category {
			continue
		}
		if _, seen := totals[r.UserID]; !seen {
			order = append(order, r.UserID)
		}
		totals[r.UserID] += r.Pontuacao
	}

	entries := make([]Entry, 0, len(order))
	for _, userID := range order {
		entries = append(entries, Entry{UserID: userID, Score: totals[userID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		placement := 1
		for _, other := range entries {
			if other.Score > entries[i].Score {
				placement++
			}
		}
		entries[i].Placement = placement
	}
	return entries
}

// TopScores returns the highest career totals across all results, limited
// to n entries, sorted descending.
func TopScores(db *models.Database, n int) []Entry {
	totals := make(map[string]float64)
	var order []string
	for _, r := range db.Results {
		if db.UserByID(r.UserID) == nil {
			continue
		}
		if _, seen := totals[r.UserID]; !seen {
			order = append(order, r.UserID)
		}
		totals[r.UserID] += r.Pontuacao
	}

	entries := make([]Entry, 0, len(order))
	for _, userID := range order {
		entries = append(entries, Entry{UserID: userID, Score: totals[userID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Placement = i + 1
	}
	return entries
}

// Growth computes percentage growth between two equal-length windows.
// A zero previous window yields 100% when anything happened in the current
// one, and 0% otherwise; there is no division by zero.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(models.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func inRange(s string, from, to time.Time) bool {
	t, ok := parseDate(s)
	if !ok {
		return false
	}
	return !t.Before(from) && !t.After(to)
}

// Filters restricts dashboard aggregates. A zero State means all states; a
// zero Category means all categories.
type Filters struct {
	State    string
	Category models.Category
	From     time.Time
	To       time.Time
}

func (f *Filters) stateMatch(uf string) bool {
	return f.State == "" || uf == f.State
}

func (f *Filters) categoryMatch(c models.Category) bool {
	return f.Category == "" || c == f.Category
}

// previousWindow returns the equal-length window immediately preceding the
// filter's range.
func (f *Filters) previousWindow() (time.Time, time.Time) {
	span := f.To.Sub(f.From)
	return f.From.Add(-span), f.From
}

// KPIs are the dashboard headline numbers.
type KPIs struct {
	TotalUsuarios        int     `json:"totalUsuarios"`
	TotalAtletas         int     `json:"totalAtletas"`
	TotalSemIDNorte      int     `json:"totalSemIdNorte"`
	TotalEventos         int     `json:"totalEventos"`
	EventosPeriodo       int     `json:"eventosPeriodo"`
	ParticipantesPeriodo int     `json:"participantesPeriodo"`
	CrescimentoEventos   float64 `json:"crescimentoEventos"`
	CrescimentoIDNorte   float64 `json:"crescimentoIdNorte"`
}

// ComputeKPIs derives the dashboard counters and growth figures for the
// filtered window versus the immediately preceding window of equal length.
func ComputeKPIs(db *models.Database, f Filters) KPIs {
	prevFrom, prevTo := f.previousWindow()

	kpis := KPIs{
		TotalUsuarios: len(db.Users),
		TotalEventos:  len(db.Events),
	}
	for _, u := range db.Users {
		if u.Nivel == models.LevelAtleta {
			kpis.TotalAtletas++
		}
		if u.IDNorteStatus != models.CredentialApproved {
			kpis.TotalSemIDNorte++
		}
	}

	eventsByID := make(map[string]*models.CertifiedEvent, len(db.Events))
	currentEvents, prevEvents := 0, 0
	for i := range db.Events {
		e := &db.Events[i]
		eventsByID[e.ID] = e
		if !f.stateMatch(e.Estado) {
			continue
		}
		if inRange(e.DataEvento, f.From, f.To) {
			currentEvents++
		}
		if inRange(e.DataEvento, prevFrom, prevTo) {
			prevEvents++
		}
	}
	kpis.EventosPeriodo = currentEvents

	participants := make(map[string]bool)
	for _, r := range db.Results {
		e := eventsByID[r.EventID]
		if e == nil || !f.stateMatch(e.Estado) || !f.categoryMatch(r.Categoria) {
			continue
		}
		if inRange(e.DataEvento, f.From, f.To) {
			participants[r.UserID] = true
		}
	}
	kpis.ParticipantesPeriodo = len(participants)

	currentCredentials, prevCredentials := 0, 0
	for _, u := range db.Users {
		if u.IDNorteStatus != models.CredentialApproved || !f.stateMatch(u.Estado) {
			continue
		}
		if inRange(u.IDNorteAprovadoEm, f.From, f.To) {
			currentCredentials++
		}
		if inRange(u.IDNorteAprovadoEm, prevFrom, prevTo) {
			prevCredentials++
		}
	}

	kpis.CrescimentoEventos = Growth(float64(currentEvents), float64(prevEvents))
	kpis.CrescimentoIDNorte = Growth(float64(currentCredentials), float64(prevCredentials))
	return kpis
}

// StateActivity is one state's event count and distinct-participant count.
type StateActivity struct {
	Estado        string  `json:"estado"`
	Eventos       int     `json:"eventos"`
	Participantes int     `json:"participantes"`
	Percentual    float64 `json:"percentual"`
}

// EventsByState aggregates event and distinct-participant counts per region
// state, sorted by event count descending. Percentual is each state's share
// of region-wide distinct participants; a region with zero participants
// yields 0%, not a division error.
func EventsByState(db *models.Database) []StateActivity {
	eventState := make(map[string]string, len(db.Events))
	for _, e := range db.Events {
		eventState[e.ID] = e.Estado
	}

	activity := make([]StateActivity, 0, len(Region))
	totalParticipants := 0
	for _, uf := range Region {
		events := 0
		for _, e := range db.Events {
			if e.Estado == uf {
				events++
			}
		}
		participants := make(map[string]bool)
		for _, r := range db.Results {
			if eventState[r.EventID] == uf {
				participants[r.UserID] = true
			}
		}
		activity = append(activity, StateActivity{Estado: uf, Eventos: events, Participantes: len(participants)})
		totalParticipants += len(participants)
	}

	for i := range activity {
		if totalParticipants > 0 {
			activity[i].Percentual = float64(activity[i].Participantes) / float64(totalParticipants) * 100
		}
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Eventos > activity[j].Eventos
	})
	return activity
}

// MonthBucket is one month of the trailing activity series.
type MonthBucket struct {
	Month         string `json:"month"`
	Eventos       int    `json:"eventos"`
	Participantes int    `json:"participantes"`
}

// MonthlySeries buckets events and distinct participants by the event date's
// year-month over a trailing window of months ending at now's month.
func MonthlySeries(db *models.Database, now time.Time, months int) []MonthBucket {
	eventMonth := make(map[string]string, len(db.Events))
	for _, e := range db.Events {
		if len(e.DataEvento) >= 7 {
			eventMonth[e.ID] = e.DataEvento[:7]
		}
	}

	// Anchor at the first of the month so month arithmetic never slides
	// across a short month.
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	series := make([]MonthBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		label := base.AddDate(0, -i, 0).Format("2006-01")
		bucket := MonthBucket{Month: label}
		for _, e := range db.Events {
			if eventMonth[e.ID] == label {
				bucket.Eventos++
			}
		}
		participants := make(map[string]bool)
		for _, r := range db.Results {
			if eventMonth[r.EventID] == label {
				participants[r.UserID] = true
			}
		}
		bucket.Participantes = len(participants)
		series = append(series, bucket)
	}
	return series
}

// PeakMonth returns the series bucket with the most events. An empty series
// yields a zero bucket.
func PeakMonth(series []MonthBucket) MonthBucket {
	var peak MonthBucket
	for _, b := range series {
		if b.Eventos > peak.Eventos || peak.Month == "" {
			peak = b
		}
	}
	return peak
}
