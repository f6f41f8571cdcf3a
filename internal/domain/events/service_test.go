package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Event
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Event{}}
}

func (r *testRepo) Create(ctx context.Context, e Event) error {
	if _, ok := r.byID[e.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) Update(ctx context.Context, e Event) error {
	if _, ok := r.byID[e.ID]; !ok {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) List(ctx context.Context, filter Filter) ([]Event, error) {
	out := make([]Event, 0)
	for _, e := range r.byID {
		if filter.Match(e) {
			out = append(out, e)
		}
	}
	SortByStartTime(out)
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_FillsDefaults(t *testing.T) {
	svc := NewService(newTestRepo(), WithDefaultImage("https://img.test/default.jpg"))
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	e, err := svc.Create(context.Background(), CreateInput{
		Name:       "  Jazz Night ",
		Venue:      "Blue Room",
		StartTime:  "21:00",
		Price:      1500,
		Categories: []Category{CategoryMusic},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected id")
	}
	if e.Name != "Jazz Night" {
		t.Fatalf("expected trimmed name, got %q", e.Name)
	}
	if e.AgeRequirement != AgeAll {
		t.Fatalf("expected default age all, got %q", e.AgeRequirement)
	}
	if e.ImageURL != "https://img.test/default.jpg" {
		t.Fatalf("expected default image, got %q", e.ImageURL)
	}
	if e.TicketLinks == nil {
		t.Fatalf("expected non-nil ticket links")
	}
	if e.Kind != KindScheduledEvent {
		t.Fatalf("expected scheduled_event, got %q", e.Kind)
	}
	if !e.CreatedAt.Equal(now) {
		t.Fatalf("expected CreatedAt=now")
	}
}

func TestService_Create_VenueListingInferredFromEquality(t *testing.T) {
	svc := NewService(newTestRepo())

	e, err := svc.Create(context.Background(), CreateInput{
		Name:       "The Tipsy Crow",
		Venue:      "The Tipsy Crow",
		StartTime:  "17:00",
		Categories: []Category{CategoryDrinks},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.Kind != KindVenueListing {
		t.Fatalf("expected venue_listing, got %q", e.Kind)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	cases := map[string]CreateInput{
		"missing name": {Venue: "v", StartTime: "20:00"},
		"bad time":     {Name: "n", Venue: "v", StartTime: "8pm"},
		"negative":     {Name: "n", Venue: "v", StartTime: "20:00", Price: -1},
		"bad age":      {Name: "n", Venue: "v", StartTime: "20:00", AgeRequirement: "16"},
		"bad category": {Name: "n", Venue: "v", StartTime: "20:00", Categories: []Category{"karaoke"}},
		"bad end time": {Name: "n", Venue: "v", StartTime: "20:00", EndTime: strPtr("25:00")},
		"bad link url": {Name: "n", Venue: "v", StartTime: "20:00", TicketLinks: map[string]string{"website": "nope"}},
	}
	for name, in := range cases {
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestService_Update_PatchesOnlyGivenFields(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateInput{Name: "Show", Venue: "Hall", StartTime: "20:00", Price: 1000})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	price := 2500
	updated, err := svc.Update(ctx, e.ID, UpdateInput{Price: &price})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Price != 2500 || updated.Name != "Show" || updated.StartTime != "20:00" {
		t.Fatalf("unexpected patch result: %#v", updated)
	}

	bad := "7pm"
	if _, err := svc.Update(ctx, e.ID, UpdateInput{StartTime: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad startTime, got %v", err)
	}
}

func TestService_Update_ReinfersKindWhenNameChanges(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateInput{
		Name:       "The Tipsy Crow",
		Venue:      "The Tipsy Crow",
		StartTime:  "17:00",
		Categories: []Category{CategoryDrinks},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	price := 500
	same, err := svc.Update(ctx, e.ID, UpdateInput{Price: &price})
	if err != nil || same.Kind != KindVenueListing {
		t.Fatalf("price patch must keep venue_listing, got %q (%v)", same.Kind, err)
	}

	name := "Trivia Night"
	updated, err := svc.Update(ctx, e.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Kind != KindScheduledEvent {
		t.Fatalf("expected scheduled_event after rename, got %q", updated.Kind)
	}

	back := "The Tipsy Crow"
	updated, err = svc.Update(ctx, e.ID, UpdateInput{Name: &back})
	if err != nil || updated.Kind != KindVenueListing {
		t.Fatalf("expected venue_listing again, got %q (%v)", updated.Kind, err)
	}
}

func TestService_SeedIfEmpty(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	seed := []Event{
		{ID: "seed-a", Name: "A", Venue: "Hall", StartTime: "20:00", Categories: []Category{CategoryMusic}},
		{ID: "seed-b", Name: "B", Venue: "Club", StartTime: "22:00"},
	}
	n, err := svc.SeedIfEmpty(ctx, seed)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 seeded, got %d (%v)", n, err)
	}
	b := repo.byID["seed-b"]
	if b.Kind != KindScheduledEvent || b.AgeRequirement != AgeAll || b.TicketLinks == nil || b.CreatedAt.IsZero() {
		t.Fatalf("expected defaults on seeded event: %#v", b)
	}

	n, err = svc.SeedIfEmpty(ctx, seed)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op on non-empty storage, got %d (%v)", n, err)
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func strPtr(s string) *string { return &s }
