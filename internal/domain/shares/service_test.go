package shares

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Share
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Share{}}
}

func (r *testRepo) Create(ctx context.Context, s Share) error {
	if s.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[s.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Update(ctx context.Context, s Share) error {
	if _, ok := r.byID[s.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Share, error) {
	s, ok := r.byID[id]
	if !ok {
		return Share{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) ListByPlan(ctx context.Context, planID string) ([]Share, error) {
	out := make([]Share, 0)
	for _, s := range r.byID {
		if s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]Share, error) {
	out := make([]Share, 0)
	for _, s := range r.byID {
		if s.GranteeUserID == granteeUserID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) GetActiveShare(ctx context.Context, planID, granteeUserID string) (Share, error) {
	var winner Share
	for _, s := range r.byID {
		if s.PlanID != planID || s.GranteeUserID != granteeUserID || s.Status != StatusActive {
			continue
		}
		if winner.ID == "" || s.UpdatedAt.After(winner.UpdatedAt) {
			winner = s
		}
	}
	if winner.ID == "" {
		return Share{}, errRepoNotFound
	}
	return winner, nil
}

func (r *testRepo) countActive(planID, granteeUserID string) int {
	n := 0
	for _, s := range r.byID {
		if s.PlanID == planID && s.GranteeUserID == granteeUserID && s.Status == StatusActive {
			n++
		}
	}
	return n
}

// -------------------------
// Tests
// -------------------------

func TestService_Invite_DefaultScopeIsRead(t *testing.T) {
	svc := NewService(newTestRepo())

	now := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sh, err := svc.Invite(context.Background(), InviteInput{
		PlanID:        "plan-1",
		OwnerUserID:   "owner-1",
		GranteeUserID: "friend-1",
	})
	if err != nil {
		t.Fatalf("Invite returned error: %v", err)
	}
	if sh.Status != StatusInvited {
		t.Fatalf("expected status invited, got %s", sh.Status)
	}
	if sh.CreatedAt != now || sh.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	if !HasScope(sh, ScopePlanRead) || HasScope(sh, ScopePlanEdit) {
		t.Fatalf("expected only plan:read, got %#v", sh.Scopes)
	}
}

func TestService_Invite_RejectsUnknownScopeAndSelfShare(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Invite(context.Background(), InviteInput{
		PlanID:        "plan-1",
		OwnerUserID:   "owner-1",
		GranteeUserID: "friend-1",
		Scopes:        []Scope{ScopePlanRead, Scope("plan:delete")},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown scope, got %v", err)
	}

	_, err = svc.Invite(context.Background(), InviteInput{
		PlanID:        "plan-1",
		OwnerUserID:   "owner-1",
		GranteeUserID: "owner-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self share, got %v", err)
	}
}

func TestService_Invite_Dedup_UpdatesSameShare(t *testing.T) {
	svc := NewService(newTestRepo())

	now1 := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	now2 := now1.Add(5 * time.Minute)

	svc.now = func() time.Time { return now1 }
	s1, err := svc.Invite(context.Background(), InviteInput{
		PlanID:        "plan-1",
		OwnerUserID:   "owner-1",
		GranteeUserID: "friend-1",
		Scopes:        []Scope{ScopePlanRead},
	})
	if err != nil {
		t.Fatalf("Invite #1 error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	s2, err := svc.Invite(context.Background(), InviteInput{
		PlanID:        "plan-1",
		OwnerUserID:   "owner-1",
		GranteeUserID: "friend-1",
		Scopes:        []Scope{ScopePlanEdit, ScopePlanEdit},
	})
	if err != nil {
		t.Fatalf("Invite #2 error: %v", err)
	}

	if s2.ID != s1.ID {
		t.Fatalf("expected same share ID (dedup), got %s vs %s", s1.ID, s2.ID)
	}
	if s2.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt to change on reinvite")
	}
	if len(s2.Scopes) != 1 || !HasScope(s2, ScopePlanEdit) {
		t.Fatalf("expected scopes replaced and deduped, got %#v", s2.Scopes)
	}
}

func TestService_Invite_AfterRevokeCreatesNewShare(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	s1, _ := svc.Invite(ctx, InviteInput{PlanID: "plan-1", OwnerUserID: "owner-1", GranteeUserID: "friend-1"})
	if _, err := svc.Revoke(ctx, s1.ID, "owner-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	s2, err := svc.Invite(ctx, InviteInput{PlanID: "plan-1", OwnerUserID: "owner-1", GranteeUserID: "friend-1"})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}
	if s2.ID == s1.ID || s2.Status != StatusInvited {
		t.Fatalf("expected a fresh invite, got %#v", s2)
	}
}

func TestService_Accept_SetsActive_AndIdempotent(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	sh, err := svc.Invite(ctx, InviteInput{PlanID: "plan-1", OwnerUserID: "owner-1", GranteeUserID: "friend-1"})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}

	accepted, err := svc.Accept(ctx, sh.ID, "friend-1")
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if accepted.Status != StatusActive {
		t.Fatalf("expected active, got %s", accepted.Status)
	}

	again, err := svc.Accept(ctx, sh.ID, "friend-1")
	if err != nil || again.Status != StatusActive {
		t.Fatalf("expected idempotent accept, got %v / %s", err, again.Status)
	}

	if !svc.Allowed(ctx, "plan-1", "friend-1", ScopePlanRead) {
		t.Fatalf("expected read access after accept")
	}
	if svc.Allowed(ctx, "plan-1", "friend-1", ScopePlanEdit) {
		t.Fatalf("read share must not allow edits")
	}
}

func TestService_Accept_ByOtherUserIsForbidden(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	sh, _ := svc.Invite(ctx, InviteInput{PlanID: "plan-1", OwnerUserID: "owner-1", GranteeUserID: "friend-1"})
	if _, err := svc.Accept(ctx, sh.ID, "stranger"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Accept(ctx, "missing", "friend-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Accept_RevokedIsBadState(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	sh, _ := svc.Invite(ctx, InviteInput{PlanID: "plan-1", OwnerUserID: "owner-1", GranteeUserID: "friend-1"})
	if _, err := svc.Revoke(ctx, sh.ID, "owner-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if _, err := svc.Accept(ctx, sh.ID, "friend-1"); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestService_Accept_LeavesOnlyOneActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Datos sucios: dos shares vivos para el mismo (plan, owner, grantee).
	for _, sh := range []Share{
		{ID: "s1", Status: StatusActive, UpdatedAt: now.Add(-10 * time.Minute)},
		{ID: "s2", Status: StatusInvited, UpdatedAt: now.Add(-5 * time.Minute)},
	} {
		sh.PlanID, sh.OwnerUserID, sh.GranteeUserID = "plan-1", "owner-1", "friend-1"
		sh.Scopes = []Scope{ScopePlanRead}
		sh.CreatedAt = sh.UpdatedAt
		_ = repo.Create(context.Background(), sh)
	}

	if _, err := svc.Accept(context.Background(), "s2", "friend-1"); err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if n := repo.countActive("plan-1", "friend-1"); n != 1 {
		t.Fatalf("expected exactly one active share, got %d", n)
	}
	if repo.byID["s1"].Status != StatusRevoked || repo.byID["s1"].RevokedAt == nil {
		t.Fatalf("expected older share revoked, got %#v", repo.byID["s1"])
	}
}

func TestService_Revoke_OnlyOwner_AndIdempotent(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	sh, _ := svc.Invite(ctx, InviteInput{PlanID: "plan-1", OwnerUserID: "owner-1", GranteeUserID: "friend-1"})
	_, _ = svc.Accept(ctx, sh.ID, "friend-1")

	if _, err := svc.Revoke(ctx, sh.ID, "friend-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for grantee revoke, got %v", err)
	}

	revoked, err := svc.Revoke(ctx, sh.ID, "owner-1")
	if err != nil || revoked.Status != StatusRevoked || revoked.RevokedAt == nil {
		t.Fatalf("unexpected revoke result: %v %#v", err, revoked)
	}
	if _, err := svc.Revoke(ctx, sh.ID, "owner-1"); err != nil {
		t.Fatalf("expected idempotent revoke, got %v", err)
	}
	if svc.Allowed(ctx, "plan-1", "friend-1", ScopePlanRead) {
		t.Fatalf("revoked share must not allow access")
	}
}

func TestHasScope_EditImpliesRead(t *testing.T) {
	if !HasScope(Share{Scopes: []Scope{ScopePlanEdit}}, ScopePlanRead) {
		t.Fatalf("expected plan:edit to imply plan:read")
	}
	if HasScope(Share{Scopes: []Scope{ScopePlanRead}}, ScopePlanEdit) {
		t.Fatalf("plan:read must not imply plan:edit")
	}
}
