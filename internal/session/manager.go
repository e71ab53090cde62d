// Package session holds the process-wide application state: the current
// document and the authenticated sessions. Every document replacement and
// every user assignment flows through the Manager, which re-applies the
// administrator invariant and keeps sessions consistent with the document.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/WilliamRochafnpe/FNPE/internal/auth"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/store"
)

// Manager is the state container. Sessions are identified by opaque uuid
// tokens handed out on login.
type Manager struct {
	mu        sync.RWMutex
	db        *models.Database
	sessions  map[string]*models.User
	store     *store.Store
	authority auth.SessionAuthority
	logger    *logging.Logger
}

// NewManager creates the state container. authority is nil for the local
// strategy; the hosted strategy passes itself so logout and startup restore
// reach the external session.
func NewManager(st *store.Store, authority auth.SessionAuthority, logger *logging.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*models.User),
		store:     st,
		authority: authority,
		logger:    logger,
	}
}

// Start loads the document and attempts to restore a prior session: the
// hosted strategy is asked for an active external session, the local strategy
// reads the persisted session user. The restored token, if any, is returned.
func (m *Manager) Start(ctx context.Context) (string, error) {
	db := m.store.Load(ctx)

	m.mu.Lock()
	m.db = db
	m.mu.Unlock()

	var user *models.User
	if m.authority != nil {
		u, err := m.authority.CurrentSession(ctx)
		if err != nil {
			m.logger.WithError(err).Warn("Session restore from identity service failed")
			return "", nil
		}
		user = u
	} else {
		user = m.store.LoadSessionUser(ctx)
	}
	if user == nil {
		return "", nil
	}

	token, err := m.Login(ctx, *user)
	if err != nil {
		return "", err
	}
	m.logger.WithField("user_id", user.ID).Info("Prior session restored")
	return token, nil
}

// DB returns the current document. Callers must treat it as read-only and go
// through Replace to mutate.
func (m *Manager) DB() *models.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Replace persists db as the new current document, re-applying the
// administrator invariant first. Sessions are re-validated against the new
// document: a session whose user no longer exists is cleared, every other
// session is refreshed from the new document's copy of its user.
func (m *Manager) Replace(ctx context.Context, db *models.Database) (*models.Database, error) {
	next := store.EnsureAdminUser(db)
	if err := m.store.Save(ctx, next); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.db = next

	for token, user := range m.sessions {
		refreshed := next.UserByID(user.ID)
		if refreshed == nil {
			delete(m.sessions, token)
			m.logger.WithField("user_id", user.ID).Info("Session cleared, user no longer in document")
			continue
		}
		m.sessions[token] = m.applyAdminRule(refreshed)
	}
	return next, nil
}

// Login registers a session for user and returns its token. The local
// strategy's session user is persisted so it survives a restart.
func (m *Manager) Login(ctx context.Context, user models.User) (string, error) {
	stored := m.applyAdminRule(&user)

	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = stored
	m.mu.Unlock()

	if m.authority == nil {
		if err := m.store.SaveSessionUser(ctx, stored); err != nil {
			return "", err
		}
	}
	return token, nil
}

// UserForToken resolves a session token to its user, or nil for an unknown
// token. The returned value is a copy.
func (m *Manager) UserForToken(token string) *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.sessions[token]
	if !ok {
		return nil
	}
	out := *user
	return &out
}

// Logout clears the session. The local strategy's persisted session user is
// removed; the hosted strategy's external session is terminated as well.
func (m *Manager) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()

	if m.authority != nil {
		if err := m.authority.SignOut(ctx); err != nil {
			return err
		}
		return nil
	}
	return m.store.ClearSessionUser(ctx)
}

// RefreshSession replaces the session's user in place, for profile updates
// initiated by the session's own user.
func (m *Manager) RefreshSession(token string, user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; ok {
		m.sessions[token] = m.applyAdminRule(&user)
	}
}

// applyAdminRule forces level ADMIN for the distinguished administrator
// e-mail before any user is stored as a session user.
func (m *Manager) applyAdminRule(user *models.User) *models.User {
	out := *user
	if strings.EqualFold(out.Email, store.AdminEmail) {
		out.Nivel = models.LevelAdmin
	}
	return &out
}
