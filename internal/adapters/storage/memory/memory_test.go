package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"nightspark/internal/domain/events"
	"nightspark/internal/domain/plans"
	"nightspark/internal/domain/shares"
)

func TestEventRepo_ListFiltersAndSorts(t *testing.T) {
	repo := NewEventRepo(SeedEvents(time.Now())...)

	all, err := repo.List(context.Background(), events.Filter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != len(SeedEvents(time.Now())) {
		t.Fatalf("expected whole seed, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].StartTime > all[i].StartTime {
			t.Fatalf("expected ascending startTime, got %s before %s", all[i-1].StartTime, all[i].StartTime)
		}
	}

	maxPrice := 2000
	cheapMusic, _ := repo.List(context.Background(), events.Filter{
		Categories: []events.Category{events.CategoryMusic, events.CategoryDancing},
		MaxPrice:   &maxPrice,
	})
	if len(cheapMusic) != 2 {
		t.Fatalf("expected jazz and club under $20, got %d", len(cheapMusic))
	}
}

func TestEventRepo_ReturnsCopies(t *testing.T) {
	repo := NewEventRepo()
	ctx := context.Background()

	e := events.Event{ID: "e1", Name: "x", Venue: "y", StartTime: "20:00", Categories: []events.Category{events.CategoryArt}, TicketLinks: map[string]string{}}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	e.Categories[0] = events.CategoryMusic

	got, _ := repo.GetByID(ctx, "e1")
	if got.Categories[0] != events.CategoryArt {
		t.Fatalf("repo shares slices with caller")
	}

	if err := repo.Create(ctx, e); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected events.ErrNotFound, got %v", err)
	}
}

func TestPlanRepo_ListByOwnerNewestFirst(t *testing.T) {
	repo := NewPlanRepo()
	ctx := context.Background()
	t0 := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, plans.Plan{ID: "old", OwnerUserID: "u1", CreatedAt: t0})
	_ = repo.Create(ctx, plans.Plan{ID: "new", OwnerUserID: "u1", CreatedAt: t0.Add(time.Hour)})
	_ = repo.Create(ctx, plans.Plan{ID: "other", OwnerUserID: "u2", CreatedAt: t0})

	got, _ := repo.ListByOwner(ctx, "u1")
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Fatalf("unexpected order: %#v", got)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, plans.ErrNotFound) {
		t.Fatalf("expected plans.ErrNotFound, got %v", err)
	}
}

func TestShareRepo_GetActiveShareNewestWins(t *testing.T) {
	repo := NewShareRepo()
	ctx := context.Background()
	t0 := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	base := shares.Share{PlanID: "p1", OwnerUserID: "o", GranteeUserID: "g", Status: shares.StatusActive}
	a, b, c := base, base, base
	a.ID, a.UpdatedAt = "a", t0
	b.ID, b.UpdatedAt = "b", t0.Add(time.Minute)
	c.ID, c.UpdatedAt, c.Status = "c", t0.Add(time.Hour), shares.StatusRevoked
	for _, s := range []shares.Share{a, b, c} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	got, err := repo.GetActiveShare(ctx, "p1", "g")
	if err != nil || got.ID != "b" {
		t.Fatalf("expected newest active share b, got %v %#v", err, got)
	}
	if _, err := repo.GetActiveShare(ctx, "p1", "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	byPlan, _ := repo.ListByPlan(ctx, "p1")
	if len(byPlan) != 3 {
		t.Fatalf("expected 3 shares for plan, got %d", len(byPlan))
	}
}
