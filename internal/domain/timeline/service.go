package timeline

import (
	"context"
	"strings"
	"time"

	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/eventbus"
	"dogpass-api/internal/platform/logger"
	"dogpass-api/internal/platform/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("dogpass-api/timeline")

type Service struct {
	repo Repository
	bus  eventbus.Publisher
	log  logger.Logger
	now  func() time.Time

	// OnPublish se invoca después de cada intento de publicación (métricas).
	OnPublish func(eventType string, err error)
}

func NewService(repo Repository, bus eventbus.Publisher, log logger.Logger) *Service {
	if bus == nil {
		bus = eventbus.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
		now:  time.Now,
	}
}

type CreateInput struct {
	Type        ItemType
	Title       string
	Description string
	Vet         string
	Clinic      string
	OccurredAt  *time.Time // nil = ahora
}

func (s *Service) Create(ctx context.Context, petID string, actor Actor, in CreateInput) (Item, error) {
	ctx, span := tracer.Start(ctx, "timeline.Create")
	defer span.End()

	if strings.TrimSpace(petID) == "" {
		return Item{}, apperr.MissingFields()
	}
	if in.Type == "" || strings.TrimSpace(in.Title) == "" {
		return Item{}, apperr.MissingFields()
	}
	if !in.Type.Valid() {
		return Item{}, apperr.Invalid("unknown timeline type %s", in.Type)
	}
	if actor.Type == "" || strings.TrimSpace(actor.ID) == "" {
		return Item{}, apperr.ErrUnauthorized
	}

	now := s.now()
	occurred := now
	if in.OccurredAt != nil && !in.OccurredAt.IsZero() {
		occurred = *in.OccurredAt
	}

	vet := strings.TrimSpace(in.Vet)
	clinic := strings.TrimSpace(in.Clinic)
	switch actor.Type {
	case ActorTypeVet:
		if vet == "" {
			vet = actor.Name
		}
		if clinic == "" {
			clinic = actor.ClinicName
		}
	case ActorTypeClinic:
		if clinic == "" {
			clinic = actor.ClinicName
		}
	}

	it := Item{
		ID:            uuid.NewString(),
		PetID:         petID,
		Type:          in.Type,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Vet:           vet,
		Clinic:        clinic,
		OccurredAt:    occurred,
		CreatedAt:     now,
		CreatedByID:   actor.ID,
		CreatedByRole: actor.Type,
		Activated:     true,
	}

	span.SetAttributes(
		attribute.String("pet.id", petID),
		attribute.String("timeline.type", string(it.Type)),
		attribute.String("actor.type", string(actor.Type)),
	)

	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}

	s.publish(ctx, EventItemRecorded, it)
	return it, nil
}

// GetForPet devuelve el ítem solo si pertenece a la mascota indicada.
func (s *Service) GetForPet(ctx context.Context, petID, itemID string) (Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return Item{}, apperr.NotFound("Timeline item not found")
	}
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return Item{}, apperr.Describe(err, "Timeline item %s", itemID)
	}
	if it.PetID != petID {
		return Item{}, apperr.NotFound("Timeline item %s not found", itemID)
	}
	return it, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Item, error) {
	ctx, span := tracer.Start(ctx, "timeline.ListByPet")
	defer span.End()

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	return s.repo.ListByPet(ctx, petID, filter)
}

// Deactivate hace soft delete. Puede hacerlo el dueño de la mascota
// (actor user ya autorizado) o quien registró el ítem.
func (s *Service) Deactivate(ctx context.Context, petID, itemID string, actor Actor) (Item, error) {
	it, err := s.GetForPet(ctx, petID, itemID)
	if err != nil {
		return Item{}, err
	}

	isAuthor := it.CreatedByID == actor.ID && it.CreatedByRole == actor.Type
	if actor.Type != ActorTypeUser && !isAuthor {
		return Item{}, apperr.Forbidden("only the author or the pet owner can deactivate this item")
	}

	if err := s.repo.Deactivate(ctx, it.ID, s.now()); err != nil {
		return Item{}, apperr.Describe(err, "Timeline item %s", itemID)
	}
	it.Activated = false

	s.publish(ctx, EventItemDeactivated, it)
	return it, nil
}

type eventPayload struct {
	ItemID        string    `json:"item_id"`
	PetID         string    `json:"pet_id"`
	Type          ItemType  `json:"type"`
	Title         string    `json:"title"`
	OccurredAt    time.Time `json:"occurred_at"`
	CreatedByID   string    `json:"created_by_id"`
	CreatedByRole ActorType `json:"created_by_role"`
}

// publish no falla la operación: el ítem ya quedó persistido.
func (s *Service) publish(ctx context.Context, eventType string, it Item) {
	err := s.bus.Publish(ctx, eventbus.Event{
		Type:       eventType,
		Key:        it.PetID,
		OccurredAt: s.now().UTC(),
		Payload: eventPayload{
			ItemID:        it.ID,
			PetID:         it.PetID,
			Type:          it.Type,
			Title:         it.Title,
			OccurredAt:    it.OccurredAt,
			CreatedByID:   it.CreatedByID,
			CreatedByRole: it.CreatedByRole,
		},
	})
	if err != nil {
		s.log.Warn("timeline event publish failed", map[string]any{
			"event":   eventType,
			"item_id": it.ID,
			"err":     err,
		})
	}
	if s.OnPublish != nil {
		s.OnPublish(eventType, err)
	}
}
