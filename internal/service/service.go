// Package service implements the federation workflows: membership,
// certification, events and results, users and settings. Every mutation
// clones the current document, edits the clone and replaces the document
// wholesale through the state container.
package service

import (
	"context"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// State is the application-state container the services mutate through.
// session.Manager is the production implementation.
type State interface {
	DB() *models.Database
	Replace(ctx context.Context, db *models.Database) (*models.Database, error)
}
