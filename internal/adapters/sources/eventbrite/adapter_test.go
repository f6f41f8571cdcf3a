package eventbrite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"nightspark/internal/discovery"
	"nightspark/internal/domain/events"
	"nightspark/internal/platform/httpclient"
)

const sampleResponse = `{
  "pagination": {"object_count": 3, "has_more_items": false},
  "events": [
    {
      "id": "9001",
      "name": {"text": "Rooftop Wine Tasting"},
      "summary": "Sip natural wines with a view of the bay.",
      "url": "https://www.eventbrite.com/e/9001",
      "start": {"local": "2025-06-14T19:00:00", "timezone": "America/Los_Angeles"},
      "end": {"local": "2025-06-14T22:00:00", "timezone": "America/Los_Angeles"},
      "is_free": false,
      "logo": {"url": "https://img.test/eb.jpg"},
      "venue": {"name": "Sky Terrace", "address": {"address_1": "1 Market St", "city": "San Francisco", "region": "CA"}},
      "category": {"name": "Food & Drink"},
      "subcategory": {"name": "Wine"},
      "ticket_availability": {"minimum_ticket_price": {"currency": "USD", "major_value": "35.00", "value": 3500}}
    },
    {
      "id": "9002",
      "name": {"text": "Free Gallery Walk"},
      "start": {"local": "2025-06-14T17:30:00"},
      "is_free": true,
      "venue": {"name": "Minnesota Street Project"},
      "category": {"name": "Arts"}
    },
    {
      "id": "9003",
      "name": {"text": "Webinar"},
      "start": {"local": "2025-06-14T12:00:00"},
      "online_event": true
    }
  ]
}`

func TestSearch_NormalizesEventbritePayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer eb-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("location.address") != "San Francisco, CA" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	a, err := New(Options{Token: "eb-token", BaseURL: ts.URL, HTTP: httpclient.Options{BreakerDisabled: true}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := a.Search(context.Background(), discovery.ParseLocation("San Francisco, CA"))
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected online event dropped, got %d events", len(got))
	}

	wine := got[0]
	if wine.ID != "eb-9001" || wine.StartTime != "19:00" || wine.EndTime == nil || *wine.EndTime != "22:00" {
		t.Fatalf("unexpected identity/times: %#v", wine)
	}
	if wine.Price != 3500 {
		t.Fatalf("expected 3500 cents, got %d", wine.Price)
	}
	if !wine.HasCategory(events.CategoryDrinks) {
		t.Fatalf("expected drinks category, got %v", wine.Categories)
	}
	if wine.TicketLinks[events.LinkEventbrite] != "https://www.eventbrite.com/e/9001" {
		t.Fatalf("expected eventbrite link kept, got %v", wine.TicketLinks)
	}
	if wine.ImageURL != "https://img.test/eb.jpg" {
		t.Fatalf("unexpected image: %q", wine.ImageURL)
	}
	if wine.Description != "Sip natural wines with a view of the bay." {
		t.Fatalf("unexpected description: %q", wine.Description)
	}

	walk := got[1]
	if walk.Price != 0 {
		t.Fatalf("expected free event, got %d", walk.Price)
	}
	if !walk.HasCategory(events.CategoryArt) {
		t.Fatalf("expected art category, got %v", walk.Categories)
	}
	if walk.Description == "" {
		t.Fatalf("expected templated description")
	}
}

func TestSearch_UsesCoordinatesWhenGeocoded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("location.latitude") != "40.712800" || q.Get("location.address") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"events": []}`))
	}))
	defer ts.Close()

	a, _ := New(Options{Token: "t", BaseURL: ts.URL, HTTP: httpclient.Options{BreakerDisabled: true}})
	loc := discovery.ParseLocation("New York, NY").WithCoords(40.7128, -74.006)
	if _, err := a.Search(context.Background(), loc); err != nil {
		t.Fatalf("Search error: %v", err)
	}
}
