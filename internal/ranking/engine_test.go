package ranking

import (
	"testing"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id, eventID, userID string, category models.Category, score float64) models.EventResult {
	return models.EventResult{ID: id, EventID: eventID, UserID: userID, Categoria: category, Pontuacao: score}
}

func TestTotalScore(t *testing.T) {
	results := []models.EventResult{
		result("r1", "e1", "ana", models.CategoryCaiaque, 60),
		result("r2", "e2", "ana", models.CategoryEmbarcado, 40.5),
		result("r3", "e1", "bia", models.CategoryCaiaque, 90),
	}

	assert.Equal(t, 100.5, TotalScore(results, "ana"))
	assert.Equal(t, 90.0, TotalScore(results, "bia"))
	assert.Equal(t, 0.0, TotalScore(results, "ninguem"))
	assert.Equal(t, 0.0, TotalScore(nil, "ana"))
}

func TestPlacementTieRule(t *testing.T) {
	bucket := []models.EventResult{
		result("r1", "e1", "a", models.CategoryCaiaque, 100),
		result("r2", "e1", "b", models.CategoryCaiaque, 100),
		result("r3", "e1", "c", models.CategoryCaiaque, 80),
	}

	assert.Equal(t, 1, Placement(bucket, bucket[0]))
	assert.Equal(t, 1, Placement(bucket, bucket[1]))
	assert.Equal(t, 3, Placement(bucket, bucket[2]), "sequence skips after a tie")
}

func TestPlacementIsScopedToBucket(t *testing.T) {
	results := []models.EventResult{
		result("r1", "e1", "a", models.CategoryCaiaque, 50),
		// Higher scores in a different event and a different category must
		// not affect r1's placement.
		result("r2", "e2", "b", models.CategoryCaiaque, 999),
		result("r3", "e1", "c", models.CategoryEmbarcado, 999),
	}

	assert.Equal(t, 1, Placement(results, results[0]))
}

func TestWithPlacements(t *testing.T) {
	results := []models.EventResult{
		result("r1", "e1", "a", models.CategoryCaiaque, 80),
		result("r2", "e1", "b", models.CategoryCaiaque, 100),
		result("r3", "e1", "c", models.CategoryCaiaque, 100),
		result("r4", "e2", "d", models.CategoryCaiaque, 10),
	}

	ranked := WithPlacements(results, "e1", models.CategoryCaiaque)

	require.Len(t, ranked, 3)
	assert.Equal(t, []int{1, 1, 3}, []int{ranked[0].Colocacao, ranked[1].Colocacao, ranked[2].Colocacao})
	assert.Equal(t, "r1", ranked[2].ID)

	assert.Empty(t, WithPlacements(results, "e9", models.CategoryCaiaque))
}

func TestPodiumCount(t *testing.T) {
	results := []models.EventResult{
		result("r1", "e1", "ana", models.CategoryCaiaque, 100), // 1st
		result("r2", "e1", "b", models.CategoryCaiaque, 90),
		result("r3", "e1", "c", models.CategoryCaiaque, 80),
		result("r4", "e1", "d", models.CategoryCaiaque, 70),
		result("r5", "e1", "ana", models.CategoryEmbarcado, 10), // only result: 1st
		result("r6", "e2", "ana", models.CategoryCaiaque, 5),    // 4th
		result("r7", "e2", "x", models.CategoryCaiaque, 50),
		result("r8", "e2", "y", models.CategoryCaiaque, 40),
		result("r9", "e2", "z", models.CategoryCaiaque, 30),
	}

	assert.Equal(t, 2, PodiumCount(results, "ana"))
	assert.Equal(t, 0, PodiumCount(results, "ninguem"))
	assert.Equal(t, 0, PodiumCount(nil, "ana"))
}

func TestStateLeaderboard(t *testing.T) {
	db := &models.Database{
		Events: []models.CertifiedEvent{
			{ID: "e1", Estado: "AM"},
			{ID: "e2", Estado: "AM"},
			{ID: "e3", Estado: "PA"},
		},
		Results: []models.EventResult{
			result("r1", "e1", "A", models.CategoryCaiaque, 60),
			result("r2", "e2", "A", models.CategoryCaiaque, 40),
			result("r3", "e1", "B", models.CategoryCaiaque, 90),
			// Different category and different state are excluded.
			result("r4", "e1", "B", models.CategoryEmbarcado, 500),
			result("r5", "e3", "B", models.CategoryCaiaque, 500),
		},
	}

	entries := StateLeaderboard(db, "AM", models.CategoryCaiaque)

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{UserID: "A", Score: 100, Placement: 1}, entries[0])
	assert.Equal(t, Entry{UserID: "B", Score: 90, Placement: 2}, entries[1])
}

func TestStateLeaderboardTies(t *testing.T) {
	db := &models.Database{
		Events: []models.CertifiedEvent{{ID: "e1", Estado: "AP"}},
		Results: []models.EventResult{
			result("r1", "e1", "A", models.CategoryArremesso, 70),
			result("r2", "e1", "B", models.CategoryArremesso, 70),
			result("r3", "e1", "C", models.CategoryArremesso, 50),
		},
	}

	entries := StateLeaderboard(db, "AP", models.CategoryArremesso)

	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Placement)
	assert.Equal(t, 1, entries[1].Placement)
	assert.Equal(t, 3, entries[2].Placement)
}

func TestStateLeaderboardEmpty(t *testing.T) {
	db := &models.Database{}
	assert.Empty(t, StateLeaderboard(db, "RR", models.CategoryCaiaque))
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 100.0, Growth(5, 0))
	assert.Equal(t, 0.0, Growth(0, 0))
	assert.Equal(t, 50.0, Growth(3, 2))
	assert.Equal(t, -50.0, Growth(1, 2))
}

func TestComputeKPIs(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	db := &models.Database{
		Users: []models.User{
			{ID: "adm", Nivel: models.LevelAdmin, IDNorteStatus: models.CredentialApproved, Estado: "AP",
				IDNorteAprovadoEm: "2020-01-01T00:00:00Z"},
			{ID: "a1", Nivel: models.LevelAtleta, IDNorteStatus: models.CredentialApproved, Estado: "AM",
				IDNorteAprovadoEm: now.AddDate(0, 0, -10).Format(time.RFC3339)},
			{ID: "p1", Nivel: models.LevelPescador, IDNorteStatus: models.CredentialNotRequested, Estado: "PA"},
		},
		Events: []models.CertifiedEvent{
			{ID: "e1", Estado: "AM", DataEvento: now.AddDate(0, 0, -5).Format(models.DateOnly)},
			{ID: "e2", Estado: "AM", DataEvento: now.AddDate(0, 0, -40).Format(models.DateOnly)},
			{ID: "e3", Estado: "PA", DataEvento: now.AddDate(0, 0, -5).Format(models.DateOnly)},
		},
		Results: []models.EventResult{
			result("r1", "e1", "a1", models.CategoryCaiaque, 10),
			result("r2", "e1", "p1", models.CategoryCaiaque, 20),
			result("r3", "e2", "a1", models.CategoryCaiaque, 30),
		},
	}

	f := Filters{State: "AM", From: now.AddDate(0, 0, -30), To: now}
	kpis := ComputeKPIs(db, f)

	assert.Equal(t, 3, kpis.TotalUsuarios)
	assert.Equal(t, 1, kpis.TotalAtletas)
	assert.Equal(t, 1, kpis.TotalSemIDNorte)
	assert.Equal(t, 3, kpis.TotalEventos)
	assert.Equal(t, 1, kpis.EventosPeriodo, "only e1 is in AM and in range")
	assert.Equal(t, 2, kpis.ParticipantesPeriodo, "distinct participants of e1")
	// One AM event now vs one in the previous window.
	assert.Equal(t, 0.0, kpis.CrescimentoEventos)
	// One credential approved now vs none before.
	assert.Equal(t, 100.0, kpis.CrescimentoIDNorte)
}

func TestEventsByState(t *testing.T) {
	db := &models.Database{
		Events: []models.CertifiedEvent{
			{ID: "e1", Estado: "AM"},
			{ID: "e2", Estado: "AM"},
			{ID: "e3", Estado: "AP"},
		},
		Results: []models.EventResult{
			result("r1", "e1", "a", models.CategoryCaiaque, 1),
			result("r2", "e1", "b", models.CategoryCaiaque, 2),
			result("r3", "e2", "a", models.CategoryCaiaque, 3), // a already counted for AM
			result("r4", "e3", "c", models.CategoryCaiaque, 4),
		},
	}

	activity := EventsByState(db)

	require.Len(t, activity, len(Region))
	assert.Equal(t, "AM", activity[0].Estado)
	assert.Equal(t, 2, activity[0].Eventos)
	assert.Equal(t, 2, activity[0].Participantes)
	// AM has 2 of 3 region-wide distinct participants.
	assert.InDelta(t, 66.66, activity[0].Percentual, 0.1)

	var roraima StateActivity
	for _, a := range activity {
		if a.Estado == "RR" {
			roraima = a
		}
	}
	assert.Equal(t, 0.0, roraima.Percentual)
}

func TestEventsByStateNoParticipants(t *testing.T) {
	db := &models.Database{Events: []models.CertifiedEvent{{ID: "e1", Estado: "AM"}}}

	activity := EventsByState(db)
	for _, a := range activity {
		assert.Equal(t, 0.0, a.Percentual)
	}
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	db := &models.Database{
		Events: []models.CertifiedEvent{
			{ID: "e1", DataEvento: "2026-08-10"},
			{ID: "e2", DataEvento: "2026-08-20"},
			{ID: "e3", DataEvento: "2026-05-01"},
			{ID: "e4", DataEvento: "2025-12-01"}, // outside the window
		},
		Results: []models.EventResult{
			result("r1", "e1", "a", models.CategoryCaiaque, 1),
			result("r2", "e2", "a", models.CategoryCaiaque, 2),
			result("r3", "e2", "b", models.CategoryCaiaque, 3),
		},
	}

	series := MonthlySeries(db, now, 6)

	require.Len(t, series, 6)
	assert.Equal(t, "2026-03", series[0].Month)
	assert.Equal(t, "2026-08", series[5].Month)
	assert.Equal(t, 2, series[5].Eventos)
	assert.Equal(t, 2, series[5].Participantes, "distinct across the month")
	assert.Equal(t, 1, series[2].Eventos)

	peak := PeakMonth(series)
	assert.Equal(t, "2026-08", peak.Month)
}
