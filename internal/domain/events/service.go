package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nightspark/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo         Repository
	now          func() time.Time
	defaultImage string
}

type Option func(*Service)

// WithDefaultImage fija la imagen usada cuando el alta no trae imageUrl.
func WithDefaultImage(url string) Option {
	return func(s *Service) { s.defaultImage = strings.TrimSpace(url) }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type CreateInput struct {
	Name           string            `validate:"required,max=200"`
	Venue          string            `validate:"required,max=200"`
	Address        string            `validate:"max=300"`
	City           string            `validate:"max=100"`
	State          string            `validate:"max=100"`
	StartTime      string            `validate:"required,hhmm"`
	EndTime        *string           `validate:"omitempty,hhmm"`
	Price          int               `validate:"min=0"`
	AgeRequirement AgeRequirement    `validate:"omitempty,oneof=all 18 21"`
	Categories     []Category        `validate:"dive,oneof=music food fastfood restaurant drinks dancing entertainment sports art"`
	TicketLinks    map[string]string `validate:"dive,url"`
	ImageURL       string            `validate:"omitempty,url"`
	Description    string            `validate:"max=2000"`
	Kind           Kind              `validate:"omitempty,oneof=scheduled_event venue_listing"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Venue = strings.TrimSpace(in.Venue)
	if err := validation.Struct(in); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	e := Event{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Venue:          in.Venue,
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Price:          in.Price,
		AgeRequirement: in.AgeRequirement,
		Categories:     in.Categories,
		TicketLinks:    in.TicketLinks,
		ImageURL:       strings.TrimSpace(in.ImageURL),
		Description:    strings.TrimSpace(in.Description),
		Kind:           in.Kind,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.fillDefaults(&e)

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Event, error) {
	return s.repo.List(ctx, filter)
}

// UpdateInput es un patch: nil = no tocar.
type UpdateInput struct {
	Name           *string            `validate:"omitempty,min=1,max=200"`
	Venue          *string            `validate:"omitempty,min=1,max=200"`
	Address        *string            `validate:"omitempty,max=300"`
	City           *string            `validate:"omitempty,max=100"`
	State          *string            `validate:"omitempty,max=100"`
	StartTime      *string            `validate:"omitempty,hhmm"`
	EndTime        *string            `validate:"omitempty,hhmm"`
	Price          *int               `validate:"omitempty,min=0"`
	AgeRequirement *AgeRequirement    `validate:"omitempty,oneof=all 18 21"`
	Categories     *[]Category        `validate:"omitempty,dive,oneof=music food fastfood restaurant drinks dancing entertainment sports art"`
	TicketLinks    *map[string]string `validate:"omitempty,dive,url"`
	ImageURL       *string            `validate:"omitempty,url"`
	Description    *string            `validate:"omitempty,max=2000"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Event, error) {
	if err := validation.Struct(in); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}

	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Venue != nil {
		e.Venue = strings.TrimSpace(*in.Venue)
	}
	if in.Address != nil {
		e.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		e.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		e.State = strings.TrimSpace(*in.State)
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		v := *in.EndTime
		e.EndTime = &v
	}
	if in.Price != nil {
		e.Price = *in.Price
	}
	if in.AgeRequirement != nil {
		e.AgeRequirement = *in.AgeRequirement
	}
	if in.Categories != nil {
		e.Categories = *in.Categories
	}
	if in.TicketLinks != nil {
		e.TicketLinks = *in.TicketLinks
	}
	if in.ImageURL != nil {
		e.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if e.Name == "" || e.Venue == "" {
		return Event{}, fmt.Errorf("%w: name and venue are required", ErrInvalidInput)
	}
	// Kind depende de name/venue/categories: se vuelve a inferir si cambiaron.
	if in.Name != nil || in.Venue != nil || in.Categories != nil {
		e.Kind = ""
	}

	e.UpdatedAt = s.now()
	s.fillDefaults(&e)

	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// SeedIfEmpty carga seed solo si Storage no tiene ningún evento.
// Devuelve cuántos insertó.
func (s *Service) SeedIfEmpty(ctx context.Context, seed []Event) (int, error) {
	existing, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	now := s.now()
	for i, e := range seed {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = e.CreatedAt
		}
		s.fillDefaults(&e)
		if err := s.repo.Create(ctx, e); err != nil {
			return i, fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}
	return len(seed), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// fillDefaults deja el registro con la misma forma que produce el pipeline.
func (s *Service) fillDefaults(e *Event) {
	if e.AgeRequirement == "" {
		e.AgeRequirement = AgeAll
	}
	if e.Categories == nil {
		e.Categories = []Category{}
	}
	if e.TicketLinks == nil {
		e.TicketLinks = map[string]string{}
	}
	if e.ImageURL == "" {
		e.ImageURL = s.defaultImage
	}
	if e.Kind == "" {
		e.Kind = KindScheduledEvent
		if e.LooksLikeVenueListing() {
			e.Kind = KindVenueListing
		}
	}
}
