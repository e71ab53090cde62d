// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/assist"
	"github.com/WilliamRochafnpe/FNPE/internal/auth"
	"github.com/WilliamRochafnpe/FNPE/internal/config"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/service"
	"github.com/WilliamRochafnpe/FNPE/internal/session"
	"github.com/WilliamRochafnpe/FNPE/internal/store"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// MembershipServiceInterface defines the interface for ID Norte operations.
type MembershipServiceInterface interface {
	Request(ctx context.Context, userID string) (*models.MembershipRequest, error)
	List(ctx context.Context) []models.MembershipRequest
	ListForUser(ctx context.Context, userID string) []models.MembershipRequest
	Approve(ctx context.Context, requestID string) (*models.User, error)
	Reject(ctx context.Context, requestID, reason string) error
}

// CertificationServiceInterface defines the interface for event certification.
type CertificationServiceInterface interface {
	Submit(ctx context.Context, requesterID, requesterEmail string, draft service.CertificationDraft) (*models.CertificationRequest, error)
	List(ctx context.Context) []models.CertificationRequest
	ListForUser(ctx context.Context, userID string) []models.CertificationRequest
	Approve(ctx context.Context, requestID, adminEmail string) (*models.CertifiedEvent, error)
	Reject(ctx context.Context, requestID, adminEmail, reason string) error
}

// EventServiceInterface defines the interface for event and result operations.
type EventServiceInterface interface {
	List(ctx context.Context) []models.CertifiedEvent
	Get(ctx context.Context, eventID string) (*models.CertifiedEvent, map[models.Category][]models.EventResult, error)
	Create(ctx context.Context, input service.EventInput) (*models.CertifiedEvent, error)
	Update(ctx context.Context, eventID string, input service.EventInput) (*models.CertifiedEvent, error)
	Delete(ctx context.Context, eventID string) error
	AddResult(ctx context.Context, eventID, credentialNumber string, category models.Category, score float64) (*models.EventResult, error)
	DeleteResult(ctx context.Context, resultID string) error
}

// UserServiceInterface defines the interface for user management.
type UserServiceInterface interface {
	List(ctx context.Context) []models.User
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, update service.ProfileUpdate) (*models.User, error)
	Create(ctx context.Context, input service.NewUserInput) (*models.User, error)
	SetLevel(ctx context.Context, actorID, targetID string, level models.UserLevel) (*models.User, error)
	Delete(ctx context.Context, actorID, targetID string) error
}

// SettingsServiceInterface defines the interface for application settings.
type SettingsServiceInterface interface {
	Get(ctx context.Context) models.Settings
	Update(ctx context.Context, settings models.Settings) (models.Settings, error)
}

// AssistantInterface defines the interface for the text-generation collaborator.
type AssistantInterface interface {
	Configured() bool
	Ask(ctx context.Context, prompt string) (string, error)
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	config     *config.Config
	logger     *logging.Logger

	sessions *session.Manager
	store    *store.Store
	strategy auth.Strategy
	recovery *auth.Recovery

	membership    MembershipServiceInterface
	certification CertificationServiceInterface
	events        EventServiceInterface
	users         UserServiceInterface
	settings      SettingsServiceInterface
	assistant     AssistantInterface

	now func() time.Time
}

// NewServer creates a new API server instance.
func NewServer(
	cfg *config.Config,
	logger *logging.Logger,
	sessions *session.Manager,
	st *store.Store,
	strategy auth.Strategy,
	recovery *auth.Recovery,
	membership *service.MembershipService,
	certification *service.CertificationService,
	events *service.EventService,
	users *service.UserService,
	settings *service.SettingsService,
	assistant *assist.Client,
) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		config:        cfg,
		logger:        logger,
		sessions:      sessions,
		store:         st,
		strategy:      strategy,
		recovery:      recovery,
		membership:    membership,
		certification: certification,
		events:        events,
		users:         users,
		settings:      settings,
		assistant:     assistant,
		now:           time.Now,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(CORSMiddleware(s.config.Server.AllowedOrigin))
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Health check endpoint
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Auth endpoints
	api.HandleFunc("/auth/otp/request", s.handleOTPRequest).Methods("POST")
	api.HandleFunc("/auth/otp/verify", s.handleOTPVerify).Methods("POST")
	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/auth/recover/request", s.handleRecoverRequest).Methods("POST")
	api.HandleFunc("/auth/recover/verify", s.handleRecoverVerify).Methods("POST")
	api.HandleFunc("/auth/logout", s.withUser(s.handleLogout)).Methods("POST")
	api.HandleFunc("/auth/session", s.withUser(s.handleSession)).Methods("GET")

	// User and profile endpoints
	api.HandleFunc("/users", s.withAdmin(s.handleListUsers)).Methods("GET")
	api.HandleFunc("/users", s.withAdmin(s.handleCreateUser)).Methods("POST")
	api.HandleFunc("/users/{id}", s.withUser(s.handleGetUser)).Methods("GET")
	api.HandleFunc("/users/{id}/level", s.withAdmin(s.handleSetUserLevel)).Methods("PUT")
	api.HandleFunc("/users/{id}", s.withAdmin(s.handleDeleteUser)).Methods("DELETE")
	api.HandleFunc("/profile", s.withUser(s.handleUpdateProfile)).Methods("PUT")

	// Membership (ID Norte) endpoints
	api.HandleFunc("/membership/requests", s.withUser(s.handleMembershipRequest)).Methods("POST")
	api.HandleFunc("/membership/requests", s.withUser(s.handleListMembershipRequests)).Methods("GET")
	api.HandleFunc("/membership/requests/{id}/approve", s.withAdmin(s.handleApproveMembership)).Methods("POST")
	api.HandleFunc("/membership/requests/{id}/reject", s.withAdmin(s.handleRejectMembership)).Methods("POST")

	// Event and result endpoints
	api.HandleFunc("/events", s.withUser(s.handleListEvents)).Methods("GET")
	api.HandleFunc("/events", s.withAdmin(s.handleCreateEvent)).Methods("POST")
	api.HandleFunc("/events/{id}", s.withUser(s.handleGetEvent)).Methods("GET")
	api.HandleFunc("/events/{id}", s.withAdmin(s.handleUpdateEvent)).Methods("PUT")
	api.HandleFunc("/events/{id}", s.withAdmin(s.handleDeleteEvent)).Methods("DELETE")
	api.HandleFunc("/events/{id}/results", s.withAdmin(s.handleAddResult)).Methods("POST")
	api.HandleFunc("/results/{id}", s.withAdmin(s.handleDeleteResult)).Methods("DELETE")

	// Certification endpoints
	api.HandleFunc("/certification/requests", s.withUser(s.handleSubmitCertification)).Methods("POST")
	api.HandleFunc("/certification/requests", s.withUser(s.handleListCertifications)).Methods("GET")
	api.HandleFunc("/certification/requests/{id}/approve", s.withAdmin(s.handleApproveCertification)).Methods("POST")
	api.HandleFunc("/certification/requests/{id}/reject", s.withAdmin(s.handleRejectCertification)).Methods("POST")

	// Ranking endpoints
	api.HandleFunc("/rankings/overall", s.withUser(s.handleOverallRanking)).Methods("GET")
	api.HandleFunc("/rankings/state/{uf}", s.withUser(s.handleStateRanking)).Methods("GET")
	api.HandleFunc("/rankings/state/{uf}/export", s.withUser(s.handleStateRankingExport)).Methods("GET")
	api.HandleFunc("/athletes/{id}/stats", s.withUser(s.handleAthleteStats)).Methods("GET")

	// Dashboard endpoints
	api.HandleFunc("/dashboard", s.withUser(s.handleDashboard)).Methods("GET")
	api.HandleFunc("/admin/dashboard", s.withAdmin(s.handleAdminDashboard)).Methods("GET")

	// Admin data endpoints
	api.HandleFunc("/admin/snapshots", s.withAdmin(s.handleListSnapshots)).Methods("GET")
	api.HandleFunc("/admin/snapshots", s.withAdmin(s.handleCreateSnapshot)).Methods("POST")
	api.HandleFunc("/admin/snapshots/{id}", s.withAdmin(s.handleDeleteSnapshot)).Methods("DELETE")
	api.HandleFunc("/admin/snapshots/{id}/restore", s.withAdmin(s.handleRestoreSnapshot)).Methods("POST")
	api.HandleFunc("/admin/backup", s.withAdmin(s.handleBackup)).Methods("GET")
	api.HandleFunc("/admin/backup/import", s.withAdmin(s.handleImportBackup)).Methods("POST")
	api.HandleFunc("/admin/reset", s.withAdmin(s.handleReset)).Methods("POST")
	api.HandleFunc("/admin/export/{collection:[a-z]+}.csv", s.withAdmin(s.handleExportCSV)).Methods("GET")
	api.HandleFunc("/admin/export/{collection:[a-z]+}.json", s.withAdmin(s.handleExportJSON)).Methods("GET")

	// Settings endpoints
	api.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	api.HandleFunc("/admin/settings", s.withAdmin(s.handleUpdateSettings)).Methods("PUT")

	// Assistant endpoint
	api.HandleFunc("/assistant", s.withUser(s.handleAssistant)).Methods("POST")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "fnpe-backend",
	})
}

// authedHandler is a handler that runs with an authenticated session user.
type authedHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// withUser requires a valid session token.
func (s *Server) withUser(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing session token")
			return
		}
		user := s.sessions.UserForToken(token)
		if user == nil {
			respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired session")
			return
		}
		next(w, r, user)
	}
}

// withAdmin requires a valid session for a user with level ADMIN.
func (s *Server) withAdmin(next authedHandler) http.HandlerFunc {
	return s.withUser(func(w http.ResponseWriter, r *http.Request, user *models.User) {
		if user.Nivel != models.LevelAdmin {
			respondError(w, http.StatusForbidden, ErrCodeForbidden, "administrator access required")
			return
		}
		next(w, r, user)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
