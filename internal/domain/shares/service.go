package shares

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("share not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type InviteInput struct {
	PlanID        string
	OwnerUserID   string
	GranteeUserID string
	Scopes        []Scope
}

// Invite crea la invitación o, si ya hay una viva para (plan, owner, grantee),
// le actualiza los scopes. Un share revocado no se reabre: se crea uno nuevo.
func (s *Service) Invite(ctx context.Context, in InviteInput) (Share, error) {
	planID := strings.TrimSpace(in.PlanID)
	ownerID := strings.TrimSpace(in.OwnerUserID)
	granteeID := strings.TrimSpace(in.GranteeUserID)

	if planID == "" || ownerID == "" || granteeID == "" || ownerID == granteeID {
		return Share{}, ErrInvalidInput
	}

	// Sin scopes => solo lectura.
	scopes := []Scope{ScopePlanRead}
	if len(in.Scopes) > 0 {
		var err error
		scopes, err = normalizeScopes(in.Scopes)
		if err != nil {
			return Share{}, err
		}
		if len(scopes) == 0 {
			return Share{}, ErrInvalidInput
		}
	}

	now := s.now()

	latest, matches, err := s.latestMatch(ctx, planID, ownerID, granteeID)
	if err != nil {
		return Share{}, err
	}
	if latest.ID != "" && latest.Status != StatusRevoked {
		s.revokeDuplicates(ctx, latest.ID, matches, now)

		latest.Scopes = scopes
		latest.UpdatedAt = now
		if err := s.repo.Update(ctx, latest); err != nil {
			return Share{}, err
		}
		return latest, nil
	}

	sh := Share{
		ID:            uuid.NewString(),
		PlanID:        planID,
		OwnerUserID:   ownerID,
		GranteeUserID: granteeID,
		Scopes:        scopes,
		Status:        StatusInvited,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return Share{}, err
	}
	return sh, nil
}

// Accept es idempotente para el invitado; un share revocado no se acepta.
// Aceptar revoca cualquier otro share vivo del mismo (plan, owner, grantee).
func (s *Service) Accept(ctx context.Context, shareID, granteeUserID string) (Share, error) {
	shareID = strings.TrimSpace(shareID)
	granteeUserID = strings.TrimSpace(granteeUserID)
	if shareID == "" || granteeUserID == "" {
		return Share{}, ErrInvalidInput
	}

	sh, err := s.repo.GetByID(ctx, shareID)
	if err != nil {
		return Share{}, ErrNotFound
	}
	if sh.GranteeUserID != granteeUserID {
		return Share{}, ErrForbidden
	}

	switch sh.Status {
	case StatusActive:
		return sh, nil
	case StatusInvited:
	default:
		return Share{}, ErrBadState
	}

	now := s.now()
	sh.Status = StatusActive
	sh.UpdatedAt = now
	if err := s.repo.Update(ctx, sh); err != nil {
		return Share{}, err
	}

	// Queda un solo share activo por (plan, owner, grantee).
	if _, matches, err := s.latestMatch(ctx, sh.PlanID, sh.OwnerUserID, sh.GranteeUserID); err == nil {
		s.revokeDuplicates(ctx, sh.ID, matches, now)
	}
	return sh, nil
}

// Revoke solo lo puede hacer el dueño del plan. Idempotente.
func (s *Service) Revoke(ctx context.Context, shareID, ownerUserID string) (Share, error) {
	shareID = strings.TrimSpace(shareID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if shareID == "" || ownerUserID == "" {
		return Share{}, ErrInvalidInput
	}

	sh, err := s.repo.GetByID(ctx, shareID)
	if err != nil {
		return Share{}, ErrNotFound
	}
	if sh.OwnerUserID != ownerUserID {
		return Share{}, ErrForbidden
	}
	if sh.Status == StatusRevoked {
		return sh, nil
	}

	now := s.now()
	sh.Status = StatusRevoked
	sh.UpdatedAt = now
	sh.RevokedAt = &now
	if err := s.repo.Update(ctx, sh); err != nil {
		return Share{}, err
	}
	return sh, nil
}

func (s *Service) ListByPlan(ctx context.Context, planID string) ([]Share, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPlan(ctx, planID)
}

func (s *Service) ListByGrantee(ctx context.Context, granteeUserID string) ([]Share, error) {
	granteeUserID = strings.TrimSpace(granteeUserID)
	if granteeUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByGrantee(ctx, granteeUserID)
}

func (s *Service) GetActiveShare(ctx context.Context, planID, granteeUserID string) (Share, error) {
	planID = strings.TrimSpace(planID)
	granteeUserID = strings.TrimSpace(granteeUserID)
	if planID == "" || granteeUserID == "" {
		return Share{}, ErrInvalidInput
	}
	sh, err := s.repo.GetActiveShare(ctx, planID, granteeUserID)
	if err != nil {
		return Share{}, ErrNotFound
	}
	return sh, nil
}

// Allowed indica si userID puede operar sobre el plan con scope (sin contar al dueño).
func (s *Service) Allowed(ctx context.Context, planID, userID string, scope Scope) bool {
	sh, err := s.GetActiveShare(ctx, planID, userID)
	return err == nil && HasScope(sh, scope)
}

func (s *Service) latestMatch(ctx context.Context, planID, ownerID, granteeID string) (Share, []Share, error) {
	items, err := s.repo.ListByPlan(ctx, planID)
	if err != nil {
		return Share{}, nil, err
	}

	var latest Share
	matches := make([]Share, 0)
	for _, sh := range items {
		if sh.OwnerUserID != ownerID || sh.GranteeUserID != granteeID {
			continue
		}
		matches = append(matches, sh)
		if latest.ID == "" || sh.UpdatedAt.After(latest.UpdatedAt) {
			latest = sh
		}
	}
	return latest, matches, nil
}

// revokeDuplicates deja un solo share vivo por (plan, owner, grantee). Best-effort.
func (s *Service) revokeDuplicates(ctx context.Context, keepID string, matches []Share, now time.Time) {
	for _, sh := range matches {
		if sh.ID == keepID || sh.Status == StatusRevoked {
			continue
		}
		sh.Status = StatusRevoked
		sh.UpdatedAt = now
		sh.RevokedAt = &now
		_ = s.repo.Update(ctx, sh)
	}
}

func normalizeScopes(in []Scope) ([]Scope, error) {
	seen := map[Scope]struct{}{}
	out := make([]Scope, 0, len(in))

	for _, raw := range in {
		sc := Scope(strings.TrimSpace(string(raw)))
		if sc == "" {
			continue
		}
		if sc != ScopePlanRead && sc != ScopePlanEdit {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[sc]; ok {
			continue
		}
		seen[sc] = struct{}{}
		out = append(out, sc)
	}
	return out, nil
}
