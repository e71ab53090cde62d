package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/google/uuid"
)

// AdminEmail is the distinguished administrator address. The record bearing
// it is forced to ADMIN on every load and on every session assignment; this
// is the documented superuser seed, not a general trust rule.
const AdminEmail = "williamrocha_25@icloud.com"

const (
	adminFixedID  = "admin-fixed-000"
	maxSnapshots  = 10
	resetSnapshot = "Antes de resetar para Seed"
)

// Store is the persistent document store.
type Store struct {
	backend Backend
	logger  *logging.Logger
}

// New creates a Store over the given backend.
func New(backend Backend, logger *logging.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// requiredKeys are the collections whose presence (as JSON arrays) makes a
// candidate document structurally valid.
var requiredKeys = []string{"users", "requests", "events", "results"}

// ValidateJSON performs the structural check only: the candidate must be a
// JSON object whose four required keys are arrays. Nested record shapes are
// not inspected.
func ValidateJSON(raw []byte) bool {
	var candidate map[string]json.RawMessage
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return false
	}
	for _, key := range requiredKeys {
		value, ok := candidate[key]
		if !ok {
			return false
		}
		trimmed := bytes.TrimLeft(value, " \t\r\n")
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return false
		}
	}
	return true
}

// EnsureAdminUser returns a copy of db in which exactly one record carries
// the administrator e-mail, with its fixed fields forced. An existing record
// keeps its identity token and creation timestamp and is replaced in place;
// otherwise the administrator is prepended.
func EnsureAdminUser(db *models.Database) *models.Database {
	out := db.Clone()

	var existing *models.User
	for i := range out.Users {
		if strings.EqualFold(out.Users[i].Email, AdminEmail) {
			existing = &out.Users[i]
			break
		}
	}

	admin := models.User{
		ID:            adminFixedID,
		Email:         AdminEmail,
		NomeCompleto:  "William Rocha",
		Nivel:         models.LevelAdmin,
		IDNorteStatus: models.CredentialApproved,
		IDNorteNumero: "00000",
		CPF:           "52785785215",
		Telefone:      "96991245513",
		Cidade:        "Macapá",
		Estado:        "AP",
		CreatedAt:     models.NowISO(),
	}

	if existing != nil {
		admin.ID = existing.ID
		if existing.CreatedAt != "" {
			admin.CreatedAt = existing.CreatedAt
		}
		for i := range out.Users {
			if strings.EqualFold(out.Users[i].Email, AdminEmail) {
				out.Users[i] = admin
			}
		}
		return out
	}

	out.Users = append([]models.User{admin}, out.Users...)
	return out
}

// normalize applies the guarantees every returned document carries: the
// administrator invariant and non-nil certificationRequests/settings.
func normalize(db *models.Database) *models.Database {
	out := EnsureAdminUser(db)
	if out.CertificationRequests == nil {
		out.CertificationRequests = []models.CertificationRequest{}
	}
	if out.Settings.AppBranding.AppName == "" {
		out.Settings = SeedData().Settings
	}
	return out
}

// Load reads the document from durable storage. Absent or structurally
// invalid data degrades to the seed document; Load never fails.
func (s *Store) Load(ctx context.Context) *models.Database {
	raw, found, err := s.backend.Get(ctx, KeyDatabase)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read document, falling back to seed data")
		return normalize(SeedData())
	}
	if !found {
		return normalize(SeedData())
	}

	var db models.Database
	if !ValidateJSON([]byte(raw)) || json.Unmarshal([]byte(raw), &db) != nil {
		s.logger.Warn("Stored document is structurally invalid, falling back to seed data")
		return normalize(SeedData())
	}
	return normalize(&db)
}

// Save serializes the full document to durable storage, overwriting any
// previous value.
func (s *Store) Save(ctx context.Context, db *models.Database) error {
	raw, err := json.Marshal(db)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.backend.Set(ctx, KeyDatabase, string(raw)); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// CreateSnapshot prepends a snapshot of db to the snapshot list, truncates
// to the most recent entries and persists the list.
func (s *Store) CreateSnapshot(ctx context.Context, db *models.Database, label string) (*models.Snapshot, error) {
	snapshots := s.ListSnapshots(ctx)

	snap := models.Snapshot{
		ID:        "snap-" + uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Label:     label,
		Data:      db.Clone(),
	}

	updated := append([]models.Snapshot{snap}, snapshots...)
	if len(updated) > maxSnapshots {
		updated = updated[:maxSnapshots]
	}
	if err := s.saveSnapshots(ctx, updated); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListSnapshots returns the retained snapshots, most recent first. Absence
// of stored snapshots yields an empty list.
func (s *Store) ListSnapshots(ctx context.Context) []models.Snapshot {
	raw, found, err := s.backend.Get(ctx, KeySnapshots)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read snapshot list")
		return []models.Snapshot{}
	}
	if !found {
		return []models.Snapshot{}
	}

	var snapshots []models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshots); err != nil {
		s.logger.WithError(err).Error("Stored snapshot list is corrupt")
		return []models.Snapshot{}
	}
	return snapshots
}

// DeleteSnapshot removes the snapshot with the given id, if present.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	snapshots := s.ListSnapshots(ctx)
	updated := snapshots[:0]
	for _, snap := range snapshots {
		if snap.ID != id {
			updated = append(updated, snap)
		}
	}
	return s.saveSnapshots(ctx, updated)
}

// RestoreSnapshot snapshots the current document as a safety net, then
// persists and returns the snapshot's document.
func (s *Store) RestoreSnapshot(ctx context.Context, id string) (*models.Database, error) {
	var target *models.Snapshot
	for _, snap := range s.ListSnapshots(ctx) {
		if snap.ID == id {
			copied := snap
			target = &copied
			break
		}
	}
	if target == nil {
		return nil, apperrors.NewNotFoundError("snapshot")
	}

	current := s.Load(ctx)
	if _, err := s.CreateSnapshot(ctx, current, "Antes de restaurar "+target.ID); err != nil {
		return nil, err
	}

	restored := normalize(target.Data)
	if err := s.Save(ctx, restored); err != nil {
		return nil, err
	}
	return restored, nil
}

func (s *Store) saveSnapshots(ctx context.Context, snapshots []models.Snapshot) error {
	raw, err := json.Marshal(snapshots)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.backend.Set(ctx, KeySnapshots, string(raw)); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ExportJSON renders the document as pretty-printed JSON together with a
// timestamp-suffixed download filename.
func ExportJSON(db *models.Database) (filename string, data []byte, err error) {
	data, err = json.MarshalIndent(db, "", "  ")
	if err != nil {
		return "", nil, apperrors.NewInternalError(err)
	}
	stamp := time.Now().UTC().Format(time.RFC3339)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "fnpe_backup_" + stamp + ".json", data, nil
}

// ImportJSON parses raw as a document, applies the structural check and the
// administrator invariant, and returns the resulting document. It does not
// persist; callers decide when to save.
func ImportJSON(raw []byte) (*models.Database, error) {
	if !ValidateJSON(raw) {
		return nil, apperrors.NewInvalidBackupError(nil)
	}
	var db models.Database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, apperrors.NewInvalidBackupError(err)
	}
	return normalize(&db), nil
}

// ResetToSeed snapshots the current document, then persists and returns the
// seed document with the administrator invariant applied.
func (s *Store) ResetToSeed(ctx context.Context) (*models.Database, error) {
	current := s.Load(ctx)
	if _, err := s.CreateSnapshot(ctx, current, resetSnapshot); err != nil {
		return nil, err
	}

	seeded := normalize(SeedData())
	if err := s.Save(ctx, seeded); err != nil {
		return nil, err
	}
	return seeded, nil
}

// SaveSessionUser persists the locally authenticated user.
func (s *Store) SaveSessionUser(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return s.backend.Set(ctx, KeySession, string(raw))
}

// LoadSessionUser returns the persisted session user, or nil when no
// session is stored or the stored value is corrupt.
func (s *Store) LoadSessionUser(ctx context.Context) *models.User {
	raw, found, err := s.backend.Get(ctx, KeySession)
	if err != nil || !found {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// ClearSessionUser removes the persisted session user.
func (s *Store) ClearSessionUser(ctx context.Context) error {
	return s.backend.Delete(ctx, KeySession)
}
