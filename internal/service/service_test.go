package service

import (
	"context"
	"testing"

	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// fakeState is an in-memory State with no persistence. Replace applies the
// document directly, so tests observe exactly what the services wrote.
type fakeState struct {
	db         *models.Database
	replaceErr error
	replaces   int
}

func (f *fakeState) DB() *models.Database { return f.db }

func (f *fakeState) Replace(_ context.Context, db *models.Database) (*models.Database, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.replaces++
	f.db = db
	return db, nil
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return logging.NewLogger(logging.LevelError, logging.FormatText)
}

func newFakeState(db *models.Database) *fakeState {
	if db.CertificationRequests == nil {
		db.CertificationRequests = []models.CertificationRequest{}
	}
	return &fakeState{db: db}
}
