package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"nightspark/internal/domain/events"
)

type eventRepo struct {
	mu   sync.RWMutex
	byID map[string]events.Event
}

// NewEventRepo arranca con seed (puede ser nil). Guarda copias.
func NewEventRepo(seed ...events.Event) events.Repository {
	r := &eventRepo{
		byID: make(map[string]events.Event, len(seed)),
	}
	for _, e := range seed {
		r.byID[e.ID] = e.Clone()
	}
	return r
}

func (r *eventRepo) Create(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	r.byID[e.ID] = e.Clone()
	return nil
}

func (r *eventRepo) Update(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return events.ErrNotFound
	}
	r.byID[e.ID] = e.Clone()
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return events.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.Event{}, events.ErrNotFound
	}
	return e.Clone(), nil
}

// List filtra y ordena por startTime; empates por id para que sea estable
// (el map no tiene orden).
func (r *eventRepo) List(ctx context.Context, filter events.Filter) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.Event, 0, len(r.byID))
	for _, e := range r.byID {
		if filter.Match(e) {
			out = append(out, e.Clone())
		}
	}

	sortByID(out)
	events.SortByStartTime(out)
	return out, nil
}
