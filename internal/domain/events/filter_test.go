package events

import (
	"net/url"
	"testing"
)

func TestParseFilter_RepeatableAndCSV(t *testing.T) {
	q := url.Values{}
	q.Add("categories", "music,drinks")
	q.Add("categories", "art")
	q.Set("ageRequirement", "21")
	q.Set("minPrice", "0")
	q.Set("maxPrice", "2500")

	f, err := ParseFilter(q)
	if err != nil {
		t.Fatalf("ParseFilter error: %v", err)
	}
	if len(f.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %#v", f.Categories)
	}
	if f.AgeRequirement != Age21 {
		t.Fatalf("expected age 21, got %q", f.AgeRequirement)
	}
	if f.MinPrice == nil || *f.MinPrice != 0 || f.MaxPrice == nil || *f.MaxPrice != 2500 {
		t.Fatalf("unexpected price bounds: %v %v", f.MinPrice, f.MaxPrice)
	}
}

func TestParseFilter_Rejects(t *testing.T) {
	bad := []url.Values{
		{"categories": {"karaoke"}},
		{"ageRequirement": {"16"}},
		{"maxPrice": {"12.50"}},
		{"minPrice": {"-1"}},
		{"minPrice": {"500"}, "maxPrice": {"100"}},
	}
	for _, q := range bad {
		if _, err := ParseFilter(q); err == nil {
			t.Fatalf("expected error for %v", q)
		}
	}
}

func TestFilter_Apply(t *testing.T) {
	evts := []Event{
		{ID: "a", Price: 0, AgeRequirement: AgeAll, Categories: []Category{CategoryMusic}},
		{ID: "b", Price: 3000, AgeRequirement: Age21, Categories: []Category{CategoryDrinks, CategoryDancing}},
		{ID: "c", Price: 1200, AgeRequirement: Age18, Categories: []Category{CategoryArt}},
	}

	max := 1500
	got := Filter{MaxPrice: &max}.Apply(evts)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected maxPrice result: %#v", got)
	}

	got = Filter{Categories: []Category{CategoryDancing, CategoryArt}}.Apply(evts)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Fatalf("unexpected any-match result: %#v", got)
	}

	got = Filter{AgeRequirement: Age21}.Apply(evts)
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("unexpected exact age result: %#v", got)
	}

	if got := (Filter{}).Apply(nil); got == nil {
		t.Fatalf("expected non-nil slice")
	}
}

func TestSortByStartTime_Stable(t *testing.T) {
	evts := []Event{
		{ID: "x", StartTime: "20:00"},
		{ID: "y", StartTime: "19:00"},
		{ID: "z", StartTime: "20:00"},
	}
	SortByStartTime(evts)
	if evts[0].ID != "y" || evts[1].ID != "x" || evts[2].ID != "z" {
		t.Fatalf("unexpected order: %s %s %s", evts[0].ID, evts[1].ID, evts[2].ID)
	}
}

func TestFeatured_InterestsFirstAndPaging(t *testing.T) {
	evts := []Event{
		{ID: "1", Categories: []Category{CategoryArt}},
		{ID: "2", Categories: []Category{CategoryMusic}},
		{ID: "3", Categories: []Category{CategoryFood}},
		{ID: "4", Categories: []Category{CategoryMusic, CategoryDancing}},
	}

	page1, more := Featured(evts, []Category{CategoryMusic}, 1, 2)
	if len(page1) != 2 || page1[0].ID != "2" || page1[1].ID != "4" || !more {
		t.Fatalf("unexpected page 1: %#v more=%v", page1, more)
	}

	page2, more := Featured(evts, []Category{CategoryMusic}, 2, 2)
	if len(page2) != 2 || page2[0].ID != "1" || page2[1].ID != "3" || more {
		t.Fatalf("unexpected page 2: %#v more=%v", page2, more)
	}

	page3, more := Featured(evts, nil, 3, 2)
	if len(page3) != 0 || more {
		t.Fatalf("expected empty page 3")
	}
}
