package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := NewRedisBackendFromClient(client)
	return New(backend, logging.NewLogger(logging.LevelError, logging.FormatText)), mr
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"valid minimal", `{"users":[],"requests":[],"events":[],"results":[]}`, true},
		{"extra keys are fine", `{"users":[],"requests":[],"events":[],"results":[],"settings":{}}`, true},
		{"missing results", `{"users":[],"requests":[],"events":[]}`, false},
		{"users not an array", `{"users":{},"requests":[],"events":[],"results":[]}`, false},
		{"not an object", `[1,2,3]`, false},
		{"malformed", `{`, false},
		{"null", `null`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateJSON([]byte(tt.raw)))
		})
	}
}

func TestEnsureAdminUser(t *testing.T) {
	t.Run("creates the admin when absent", func(t *testing.T) {
		db := &models.Database{Users: []models.User{{ID: "u1", Email: "someone@demo.com", Nivel: models.LevelPescador}}}

		out := EnsureAdminUser(db)

		require.Len(t, out.Users, 2)
		assert.Equal(t, AdminEmail, out.Users[0].Email)
		assert.Equal(t, models.LevelAdmin, out.Users[0].Nivel)
		// Input document untouched.
		assert.Len(t, db.Users, 1)
	})

	t.Run("replaces in place, preserving id and creation time", func(t *testing.T) {
		db := &models.Database{Users: []models.User{
			{ID: "u1", Email: "someone@demo.com"},
			{ID: "custom-id", Email: strings.ToUpper(AdminEmail), Nivel: models.LevelPescador, CreatedAt: "2020-01-01T00:00:00Z"},
		}}

		out := EnsureAdminUser(db)

		require.Len(t, out.Users, 2)
		admin := out.Users[1]
		assert.Equal(t, "custom-id", admin.ID)
		assert.Equal(t, "2020-01-01T00:00:00Z", admin.CreatedAt)
		assert.Equal(t, models.LevelAdmin, admin.Nivel)
		assert.Equal(t, AdminEmail, admin.Email)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := &models.Database{Users: []models.User{{ID: "u1", Email: "someone@demo.com"}}}

		once := EnsureAdminUser(db)
		twice := EnsureAdminUser(once)

		onceJSON, _ := json.Marshal(once)
		twiceJSON, _ := json.Marshal(twice)
		assert.JSONEq(t, string(onceJSON), string(twiceJSON))
	})
}

func TestLoadFallsBackToSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		s, _ := setupTestStore(t)

		db := s.Load(ctx)

		assert.Equal(t, "FNPE - Federação Norte de Pesca Esportiva", db.Settings.AppBranding.AppName)
		assert.Equal(t, AdminEmail, db.Users[0].Email)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		s, mr := setupTestStore(t)
		mr.Set(KeyDatabase, "{not json")

		db := s.Load(ctx)

		assert.Equal(t, AdminEmail, db.Users[0].Email)
		assert.NotEmpty(t, db.Events)
	})

	t.Run("structurally invalid", func(t *testing.T) {
		s, mr := setupTestStore(t)
		mr.Set(KeyDatabase, `{"users":[]}`)

		db := s.Load(ctx)

		assert.NotEmpty(t, db.Events, "seed data expected")
	})

	t.Run("valid stored document is returned with guarantees applied", func(t *testing.T) {
		s, mr := setupTestStore(t)
		mr.Set(KeyDatabase, `{"users":[{"id":"x","email":"x@y.com","nomeCompleto":"X","nivel":"PESCADOR","idNorteStatus":"NAO_SOLICITADO"}],"requests":[],"events":[],"results":[]}`)

		db := s.Load(ctx)

		assert.Nil(t, db.EventByID("event-1"), "stored document, not seed")
		assert.NotNil(t, db.UserByID("x"))
		assert.Equal(t, AdminEmail, db.Users[0].Email)
		assert.NotNil(t, db.CertificationRequests)
		assert.NotEmpty(t, db.Settings.AppBranding.AppName)
	})
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestStore(t)

	db := EnsureAdminUser(SeedData())
	db.Users = append(db.Users, models.User{
		ID: "novo", Email: "novo@demo.com", NomeCompleto: "Novo", Nivel: models.LevelPescador,
		IDNorteStatus: models.CredentialNotRequested,
	})
	require.NoError(t, s.Save(ctx, db))

	loaded := s.Load(ctx)
	assert.NotNil(t, loaded.UserByID("novo"))
	assert.Len(t, loaded.Users, len(db.Users))
}

func TestSnapshotBound(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestStore(t)
	db := EnsureAdminUser(SeedData())

	for i := 0; i < 12; i++ {
		_, err := s.CreateSnapshot(ctx, db, fmt.Sprintf("snap %d", i))
		require.NoError(t, err)
	}

	snapshots := s.ListSnapshots(ctx)
	require.Len(t, snapshots, 10)
	assert.Equal(t, "snap 11", snapshots[0].Label, "most recent first")
	assert.Equal(t, "snap 2", snapshots[9].Label)
}

func TestDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestStore(t)
	db := EnsureAdminUser(SeedData())

	snap, err := s.CreateSnapshot(ctx, db, "keep")
	require.NoError(t, err)
	snap2, err := s.CreateSnapshot(ctx, db, "drop")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSnapshot(ctx, snap2.ID))

	snapshots := s.ListSnapshots(ctx)
	require.Len(t, snapshots, 1)
	assert.Equal(t, snap.ID, snapshots[0].ID)
}

func TestRestoreSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestStore(t)

	original := EnsureAdminUser(SeedData())
	require.NoError(t, s.Save(ctx, original))
	snap, err := s.CreateSnapshot(ctx, original, "before change")
	require.NoError(t, err)

	changed := original.Clone()
	changed.Events = nil
	require.NoError(t, s.Save(ctx, changed))

	restored, err := s.RestoreSnapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, restored.Events)

	// A safety snapshot of the pre-restore state was taken.
	snapshots := s.ListSnapshots(ctx)
	require.Len(t, snapshots, 2)
	assert.Contains(t, snapshots[0].Label, "Antes de restaurar")

	_, err = s.RestoreSnapshot(ctx, "snap-missing")
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	db := EnsureAdminUser(SeedData())

	filename, data, err := ExportJSON(db)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "fnpe_backup_"))
	assert.True(t, strings.HasSuffix(filename, ".json"))

	imported, err := ImportJSON(data)
	require.NoError(t, err)

	wantJSON, _ := json.Marshal(db)
	gotJSON, _ := json.Marshal(imported)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestImportJSONRejectsInvalid(t *testing.T) {
	_, err := ImportJSON([]byte("not json"))
	assert.Error(t, err)

	_, err = ImportJSON([]byte(`{"users":[]}`))
	assert.Error(t, err)
}

func TestResetToSeed(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestStore(t)

	custom := EnsureAdminUser(SeedData())
	custom.Events = append(custom.Events, models.CertifiedEvent{ID: "extra", NomeEvento: "Extra"})
	require.NoError(t, s.Save(ctx, custom))

	seeded, err := s.ResetToSeed(ctx)
	require.NoError(t, err)
	assert.Nil(t, seeded.EventByID("extra"))

	snapshots := s.ListSnapshots(ctx)
	require.NotEmpty(t, snapshots)
	assert.Equal(t, "Antes de resetar para Seed", snapshots[0].Label)
	assert.NotNil(t, snapshots[0].Data.EventByID("extra"), "snapshot holds the pre-reset document")
}

func TestSessionUserPersistence(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestStore(t)

	assert.Nil(t, s.LoadSessionUser(ctx))

	user := &models.User{ID: "u1", Email: "u1@demo.com", Nivel: models.LevelPescador}
	require.NoError(t, s.SaveSessionUser(ctx, user))

	loaded := s.LoadSessionUser(ctx)
	require.NotNil(t, loaded)
	assert.Equal(t, "u1", loaded.ID)

	require.NoError(t, s.ClearSessionUser(ctx))
	assert.Nil(t, s.LoadSessionUser(ctx))
}
