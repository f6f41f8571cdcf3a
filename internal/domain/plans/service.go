package plans

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nightspark/internal/domain/events"
	"nightspark/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrItemNotFound = errors.New("plan item not found")
)

type Service struct {
	repo   Repository
	broker *Broker
	now    func() time.Time

	// serializa read-modify-write de items
	mu sync.Mutex
}

// NewService: broker puede ser nil (sin stream).
func NewService(repo Repository, broker *Broker) *Service {
	if broker == nil {
		broker = NewBroker()
	}
	return &Service{
		repo:   repo,
		broker: broker,
		now:    time.Now,
	}
}

func (s *Service) Broker() *Broker { return s.broker }

type CreateInput struct {
	Name string `validate:"required,max=120"`
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

type UpdateInput struct {
	Name *string `validate:"omitempty,min=1,max=120"`
	Date *string `validate:"omitempty,datetime=2006-01-02"`
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Plan, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	in.Name = strings.TrimSpace(in.Name)
	in.Date = strings.TrimSpace(in.Date)
	if ownerUserID == "" {
		return Plan{}, ErrInvalidInput
	}
	if err := validation.Struct(in); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	p := Plan{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        in.Name,
		Date:        in.Date,
		Items:       []Item{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Plan, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Plan, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// OwnerOf expone el dueño de un plan (lo usa shares sin importar este paquete).
func (s *Service) OwnerOf(ctx context.Context, planID string) (string, error) {
	p, err := s.GetByID(ctx, planID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

func (s *Service) Update(ctx context.Context, planID string, in UpdateInput) (Plan, error) {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if err := validation.Struct(in); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.mutate(ctx, planID, func(p *Plan) (bool, error) {
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Date != nil {
			p.Date = strings.TrimSpace(*in.Date)
		}
		return true, nil
	})
}

// Delete borra el plan y corta los streams abiertos.
func (s *Service) Delete(ctx context.Context, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, planID); err != nil {
		return err
	}
	s.broker.Drop(planID)
	return nil
}

// AddItem agrega un snapshot del evento. Si el evento ya está, no cambia nada.
func (s *Service) AddItem(ctx context.Context, planID string, e events.Event) (Plan, error) {
	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Venue) == "" || !validation.IsClock(e.StartTime) {
		return Plan{}, fmt.Errorf("%w: event needs id, venue and startTime HH:MM", ErrInvalidInput)
	}

	return s.mutate(ctx, planID, func(p *Plan) (bool, error) {
		if p.HasEvent(e.ID) {
			return false, nil
		}
		p.Items = append(p.Items, Item{Event: e.Clone(), AddedAt: s.now()})
		sort.SliceStable(p.Items, func(i, j int) bool {
			return p.Items[i].Event.StartTime < p.Items[j].Event.StartTime
		})
		return true, nil
	})
}

func (s *Service) RemoveItem(ctx context.Context, planID, eventID string) (Plan, error) {
	return s.mutate(ctx, planID, func(p *Plan) (bool, error) {
		for i, it := range p.Items {
			if it.Event.ID == eventID {
				p.Items = append(p.Items[:i:i], p.Items[i+1:]...)
				return true, nil
			}
		}
		return false, ErrItemNotFound
	})
}

func (s *Service) Itinerary(ctx context.Context, planID string) (Itinerary, error) {
	p, err := s.GetByID(ctx, planID)
	if err != nil {
		return Itinerary{}, err
	}
	return BuildItinerary(p), nil
}

// mutate aplica fn bajo lock; si fn reporta cambio, persiste y publica.
func (s *Service) mutate(ctx context.Context, planID string, fn func(p *Plan) (bool, error)) (Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetByID(ctx, strings.TrimSpace(planID))
	if err != nil {
		return Plan{}, err
	}

	changed, err := fn(&p)
	if err != nil {
		return Plan{}, err
	}
	if !changed {
		return p, nil
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Plan{}, err
	}
	s.broker.Publish(p)
	return p, nil
}
