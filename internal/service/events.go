package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/ranking"
)

// EventInput is the payload for creating or updating a certified event.
type EventInput struct {
	NomeEvento              string `json:"nomeEvento"`
	Descricao               string `json:"descricao"`
	InstituicaoOrganizadora string `json:"instituicaoOrganizadora"`
	Responsaveis            string `json:"responsaveis"`
	Cidade                  string `json:"cidade"`
	Estado                  string `json:"estado"`
	DataEvento              string `json:"dataEvento"`
	TemCaiaque              bool   `json:"temCaiaque"`
	TemEmbarcado            bool   `json:"temEmbarcado"`
	TemArremesso            bool   `json:"temArremesso"`
	TemBarranco             bool   `json:"temBarranco"`
	LogoDataURL             string `json:"logoDataUrl"`
	ContactPhone            string `json:"contactPhone"`
}

// EventService manages certified events and their results.
type EventService struct {
	state  State
	logger *logging.Logger
}

// NewEventService creates the event service.
func NewEventService(state State, logger *logging.Logger) *EventService {
	return &EventService{state: state, logger: logger}
}

// List returns every certified event, most recent date first.
func (s *EventService) List(_ context.Context) []models.CertifiedEvent {
	db := s.state.DB()
	out := make([]models.CertifiedEvent, len(db.Events))
	copy(out, db.Events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DataEvento > out[j].DataEvento
	})
	return out
}

// Get returns one event together with its results per category. Placements
// on the returned results are derived from scores, never read from storage.
func (s *EventService) Get(_ context.Context, eventID string) (*models.CertifiedEvent, map[models.Category][]models.EventResult, error) {
	db := s.state.DB()

	event := db.EventByID(eventID)
	if event == nil {
		return nil, nil, apperrors.NewNotFoundError("event")
	}

	results := make(map[models.Category][]models.EventResult)
	for _, c := range models.Categories {
		if !event.Offers(c) {
			continue
		}
		results[c] = ranking.WithPlacements(db.Results, eventID, c)
	}

	out := *event
	return &out, results, nil
}

// Create publishes a certified event directly, outside the certification
// workflow.
func (s *EventService) Create(ctx context.Context, input EventInput) (*models.CertifiedEvent, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	db := s.state.DB().Clone()
	event := eventFromInput("event-"+uuid.NewString(), input)
	event.CreatedAt = models.NowISO()
	db.Events = append(db.Events, event)

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithField("event_id", event.ID).Info("Event published")
	return &event, nil
}

// Update replaces the event's editable fields.
func (s *EventService) Update(ctx context.Context, eventID string, input EventInput) (*models.CertifiedEvent, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	db := s.state.DB().Clone()
	existing := db.EventByID(eventID)
	if existing == nil {
		return nil, apperrors.NewNotFoundError("event")
	}

	event := eventFromInput(eventID, input)
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = models.NowISO()
	*existing = event

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithField("event_id", eventID).Info("Event updated")
	return &event, nil
}

// Delete removes the event and cascades to its results.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	db := s.state.DB().Clone()

	if db.EventByID(eventID) == nil {
		return apperrors.NewNotFoundError("event")
	}

	events := db.Events[:0]
	for _, e := range db.Events {
		if e.ID != eventID {
			events = append(events, e)
		}
	}
	db.Events = events

	results := db.Results[:0]
	removed := 0
	for _, r := range db.Results {
		if r.EventID == eventID {
			removed++
			continue
		}
		results = append(results, r)
	}
	db.Results = results

	if _, err := s.state.Replace(ctx, db); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"event_id":        eventID,
		"results_removed": removed,
	}).Info("Event deleted")
	return nil
}

// AddResult records a score for an athlete, looked up by credential number.
// The category must be offered by the event and the athlete must hold an
// approved credential.
func (s *EventService) AddResult(ctx context.Context, eventID string, credentialNumber string, category models.Category, score float64) (*models.EventResult, error) {
	if !models.IsValidCategory(category) {
		return nil, apperrors.NewValidationError("unknown category")
	}

	db := s.state.DB().Clone()

	event := db.EventByID(eventID)
	if event == nil {
		return nil, apperrors.NewNotFoundError("event")
	}
	if !event.Offers(category) {
		return nil, apperrors.NewValidationError("the event does not offer this category")
	}

	var athlete *models.User
	for i := range db.Users {
		u := &db.Users[i]
		if u.IDNorteNumero == credentialNumber && u.Nivel == models.LevelAtleta {
			athlete = u
			break
		}
	}
	if athlete == nil {
		return nil, apperrors.NewNotFoundError("athlete with this credential number")
	}

	result := models.EventResult{
		ID:            "res-" + uuid.NewString(),
		EventID:       eventID,
		Categoria:     category,
		IDNorteNumero: credentialNumber,
		UserID:        athlete.ID,
		Pontuacao:     score,
		CreatedAt:     models.NowISO(),
	}
	db.Results = append(db.Results, result)

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithFields(map[string]interface{}{
		"event_id": eventID,
		"user_id":  athlete.ID,
	}).Info("Result recorded")
	return &result, nil
}

// DeleteResult removes a single result.
func (s *EventService) DeleteResult(ctx context.Context, resultID string) error {
	db := s.state.DB().Clone()

	results := db.Results[:0]
	found := false
	for _, r := range db.Results {
		if r.ID == resultID {
			found = true
			continue
		}
		results = append(results, r)
	}
	if !found {
		return apperrors.NewNotFoundError("result")
	}
	db.Results = results

	if _, err := s.state.Replace(ctx, db); err != nil {
		return err
	}
	s.logger.WithField("result_id", resultID).Info("Result removed")
	return nil
}

func validateEventInput(input EventInput) error {
	for field, value := range map[string]string{
		"nomeEvento": input.NomeEvento,
		"cidade":     input.Cidade,
		"estado":     input.Estado,
		"dataEvento": input.DataEvento,
	} {
		if strings.TrimSpace(value) == "" {
			return apperrors.NewMissingFieldError(field)
		}
	}
	if !input.TemCaiaque && !input.TemEmbarcado && !input.TemArremesso && !input.TemBarranco {
		return apperrors.NewValidationError("the event must offer at least one category")
	}
	return nil
}

func eventFromInput(id string, input EventInput) models.CertifiedEvent {
	return models.CertifiedEvent{
		ID:                      id,
		NomeEvento:              input.NomeEvento,
		Descricao:               input.Descricao,
		InstituicaoOrganizadora: input.InstituicaoOrganizadora,
		Responsaveis:            input.Responsaveis,
		Cidade:                  input.Cidade,
		Estado:                  strings.ToUpper(input.Estado),
		DataEvento:              input.DataEvento,
		TemCaiaque:              input.TemCaiaque,
		TemEmbarcado:            input.TemEmbarcado,
		TemArremesso:            input.TemArremesso,
		TemBarranco:             input.TemBarranco,
		LogoDataURL:             input.LogoDataURL,
		ContactPhone:            input.ContactPhone,
	}
}
