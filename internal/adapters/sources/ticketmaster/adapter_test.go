package ticketmaster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"nightspark/internal/discovery"
	"nightspark/internal/domain/events"
	"nightspark/internal/platform/httpclient"
)

const sampleResponse = `{
  "_embedded": {
    "events": [
      {
        "id": "G5vYZ9Kx",
        "name": "Khruangbin: A LA SALA Tour",
        "url": "https://www.ticketmaster.com/event/G5vYZ9Kx",
        "info": "Doors open one hour before the show.",
        "dates": {"start": {"localDate": "2025-06-14", "localTime": "20:00:00"}},
        "classifications": [
          {"primary": true, "segment": {"name": "Music"}, "genre": {"name": "Rock"}, "subGenre": {"name": "Psychedelic"}}
        ],
        "priceRanges": [{"min": 59.5, "max": 125, "currency": "USD"}, {"min": 45, "max": 60, "currency": "USD"}],
        "images": [
          {"url": "https://img.test/small.jpg", "ratio": "4_3", "width": 305},
          {"url": "https://img.test/wide.jpg", "ratio": "16_9", "width": 1024}
        ],
        "_embedded": {
          "venues": [{"name": "Bill Graham Civic Auditorium", "city": {"name": "San Francisco"}, "state": {"stateCode": "CA"}, "address": {"line1": "99 Grove St"}}],
          "attractions": [{"name": "Khruangbin"}]
        }
      },
      {
        "id": "Lateshow1",
        "name": "Late Techno Night",
        "dates": {"start": {"localDate": "2025-06-14", "localTime": "18:30:00"}},
        "classifications": [{"segment": {"name": "Music"}, "genre": {"name": "Dance/Electronic"}}],
        "ageRestrictions": {"legalAgeEnforced": true},
        "_embedded": {"venues": [{"name": "Public Works"}]}
      },
      {
        "id": "TBA1",
        "name": "Mystery Show",
        "dates": {"start": {"localDate": "2025-06-14", "timeTBA": true}},
        "_embedded": {"venues": [{"name": "The Chapel"}]}
      },
      {
        "id": "NoVenue",
        "name": "Nowhere",
        "dates": {"start": {"localTime": "19:00:00"}}
      }
    ]
  }
}`

func newTestAdapter(t *testing.T, baseURL string) *Adapter {
	t.Helper()
	a, err := New(Options{
		APIKey:  "tm-key",
		BaseURL: baseURL,
		HTTP:    httpclient.Options{BreakerDisabled: true},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestSearch_NormalizesAndDropsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events.json" || r.URL.Query().Get("apikey") != "tm-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("latlong") != "37.774900,-122.419400" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	a := newTestAdapter(t, ts.URL)
	loc := discovery.ParseLocation("San Francisco, CA").WithCoords(37.7749, -122.4194)

	got, err := a.Search(context.Background(), loc)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events (TBA and venue-less dropped), got %d", len(got))
	}

	e := got[0]
	if e.ID != "tm-G5vYZ9Kx" || e.Name != "Khruangbin" || e.Venue != "Bill Graham Civic Auditorium" {
		t.Fatalf("unexpected identity: %#v", e)
	}
	if e.StartTime != "20:00" || e.EndTime != nil {
		t.Fatalf("unexpected times: %q %v", e.StartTime, e.EndTime)
	}
	if e.Price != 4500 {
		t.Fatalf("expected min price 4500 cents, got %d", e.Price)
	}
	if e.AgeRequirement != events.Age18 {
		t.Fatalf("expected 18 for rock, got %q", e.AgeRequirement)
	}
	if !reflect.DeepEqual(e.Categories, []events.Category{events.CategoryMusic}) {
		t.Fatalf("unexpected categories: %v", e.Categories)
	}
	if e.ImageURL != "https://img.test/wide.jpg" {
		t.Fatalf("expected widest 16_9 image, got %q", e.ImageURL)
	}
	if e.TicketLinks[events.LinkTicketmaster] != "https://www.ticketmaster.com/event/G5vYZ9Kx" {
		t.Fatalf("expected real ticketmaster url kept, got %v", e.TicketLinks)
	}
	if e.Description != "Doors open one hour before the show." {
		t.Fatalf("unexpected description: %q", e.Description)
	}
	if e.City != "San Francisco" || e.State != "CA" || e.Address != "99 Grove St" {
		t.Fatalf("unexpected location fields: %q %q %q", e.City, e.State, e.Address)
	}
	if e.Kind != events.KindScheduledEvent {
		t.Fatalf("expected scheduled_event, got %q", e.Kind)
	}

	late := got[1]
	if late.StartTime != "18:30" || late.AgeRequirement != events.Age21 {
		t.Fatalf("unexpected second event: %q %q", late.StartTime, late.AgeRequirement)
	}
	if late.Price < 0 {
		t.Fatalf("price must be >= 0")
	}
	if late.ImageURL == "" {
		t.Fatalf("expected stock image fallback")
	}
}

func TestSearch_ByCityWithoutCoords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("city") != "Austin" || q.Get("stateCode") != "TX" || q.Get("latlong") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"page": {"totalElements": 0}}`))
	}))
	defer ts.Close()

	got, err := newTestAdapter(t, ts.URL).Search(context.Background(), discovery.ParseLocation("Austin, tx"))
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no events, got %d", len(got))
	}
}

func TestSearch_UpstreamErrorIsReturned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	if _, err := newTestAdapter(t, ts.URL).Search(context.Background(), discovery.ParseLocation("Austin")); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	a := newTestAdapter(t, "http://unused.test")
	raw := rawEvent{ID: "X1", Name: "Show"}
	raw.Dates.Start.LocalTime = "21:00:00"
	raw.Embedded.Venues = []rawVenue{{Name: "The Warfield"}}

	e1, err1 := a.normalize(raw)
	e2, err2 := a.normalize(raw)
	if err1 != nil || err2 != nil {
		t.Fatalf("normalize errors: %v %v", err1, err2)
	}
	e1.CurrentAttendees, e2.CurrentAttendees = nil, nil
	if !reflect.DeepEqual(e1, e2) {
		t.Fatalf("expected identical output:\n%#v\n%#v", e1, e2)
	}
}

func TestEnabled_RequiresKey(t *testing.T) {
	a, _ := New(Options{})
	if a.Enabled() {
		t.Fatalf("expected disabled without key")
	}
}

func TestSearch_UnreachableUpstreamKeepsKeyOutOfError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	base := ts.URL
	ts.Close()

	a, err := New(Options{
		APIKey:  "SECRET-KEY-123",
		BaseURL: base,
		HTTP:    httpclient.Options{BreakerDisabled: true},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = a.Search(context.Background(), discovery.Location{Text: "Austin, TX", City: "Austin", State: "TX"})
	if err == nil {
		t.Fatalf("expected error against a closed server")
	}
	if strings.Contains(err.Error(), "SECRET-KEY-123") {
		t.Fatalf("api key leaked in error: %v", err)
	}
}
