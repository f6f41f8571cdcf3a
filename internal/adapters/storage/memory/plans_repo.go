package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"nightspark/internal/domain/plans"
)

type planRepo struct {
	mu   sync.RWMutex
	byID map[string]plans.Plan
}

func NewPlanRepo() plans.Repository {
	return &planRepo{
		byID: make(map[string]plans.Plan),
	}
}

func (r *planRepo) Create(ctx context.Context, p plans.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("plan id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("plan already exists")
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *planRepo) Update(ctx context.Context, p plans.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return plans.ErrNotFound
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return plans.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *planRepo) GetByID(ctx context.Context, id string) (plans.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return plans.Plan{}, plans.ErrNotFound
	}
	return p.Clone(), nil
}

// ListByOwner devuelve los planes del usuario, más nuevos primero.
func (r *planRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]plans.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plans.Plan, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
