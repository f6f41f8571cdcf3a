package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"nightspark/internal/domain/shares"
)

var ErrNotFound = errors.New("not found")

type shareRepo struct {
	mu   sync.RWMutex
	byID map[string]shares.Share
}

func NewShareRepo() shares.Repository {
	return &shareRepo{
		byID: make(map[string]shares.Share),
	}
}

func (r *shareRepo) Create(ctx context.Context, s shares.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("share id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("share already exists")
	}
	r.byID[s.ID] = cloneShare(s)
	return nil
}

func (r *shareRepo) Update(ctx context.Context, s shares.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; !exists {
		return ErrNotFound
	}
	r.byID[s.ID] = cloneShare(s)
	return nil
}

func (r *shareRepo) GetByID(ctx context.Context, id string) (shares.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return shares.Share{}, ErrNotFound
	}
	return cloneShare(s), nil
}

func (r *shareRepo) ListByPlan(ctx context.Context, planID string) ([]shares.Share, error) {
	return r.list(func(s shares.Share) bool { return s.PlanID == planID }), nil
}

func (r *shareRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]shares.Share, error) {
	return r.list(func(s shares.Share) bool { return s.GranteeUserID == granteeUserID }), nil
}

// GetActiveShare: si por datos sucios hubiera varios activos, gana el más
// reciente por UpdatedAt (y en empate por CreatedAt).
func (r *shareRepo) GetActiveShare(ctx context.Context, planID, granteeUserID string) (shares.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner shares.Share
	has := false
	for _, s := range r.byID {
		if s.PlanID != planID || s.GranteeUserID != granteeUserID || s.Status != shares.StatusActive {
			continue
		}
		if !has || newer(s, winner) {
			winner = s
			has = true
		}
	}
	if !has {
		return shares.Share{}, ErrNotFound
	}
	return cloneShare(winner), nil
}

// list devuelve en orden de creación.
func (r *shareRepo) list(keep func(shares.Share) bool) []shares.Share {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shares.Share, 0)
	for _, s := range r.byID {
		if keep(s) {
			out = append(out, cloneShare(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func newer(a, b shares.Share) bool {
	if a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

func cloneShare(s shares.Share) shares.Share {
	s.Scopes = append([]shares.Scope(nil), s.Scopes...)
	if s.RevokedAt != nil {
		t := *s.RevokedAt
		s.RevokedAt = &t
	}
	return s
}
