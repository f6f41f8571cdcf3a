package normalize

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"nightspark/internal/domain/events"
)

func TestDefault_EmbeddedTablesAreValid(t *testing.T) {
	tb := Default()
	if len(tb.ClassificationKeywords) == 0 || len(tb.PlaceTypes) == 0 {
		t.Fatalf("expected embedded tables to be populated")
	}
}

func TestParse_RejectsUnknownCategory(t *testing.T) {
	raw := []byte(`
classification_keywords:
  - keyword: karaoke
    categories: [singing]
default_price: {free_chance: 0.3, range: [5, 25]}
default_schedule: ["18:00", "23:00"]
default_image: https://img.test/x.jpg
description_max: 150
`)
	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected error for category outside vocabulary")
	}
}

func TestLoad_FromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.yaml")
	raw := []byte(`
fallback_categories: [art]
default_price: {free_chance: 0, range: [7, 7]}
default_schedule: ["19:00", "22:00"]
default_image: https://img.test/x.jpg
description_max: 20
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := tb.ClassificationCategories("whatever"); !reflect.DeepEqual(got, []events.Category{events.CategoryArt}) {
		t.Fatalf("expected fallback [art], got %v", got)
	}
	if got := tb.FallbackPrice(Seeded("x")); got != 700 {
		t.Fatalf("expected 700 cents, got %d", got)
	}
}

func TestClassificationCategories(t *testing.T) {
	tb := Default()

	got := tb.ClassificationCategories("Music", "Dance/Electronic", "Undefined")
	if !reflect.DeepEqual(got, []events.Category{events.CategoryMusic, events.CategoryDancing}) {
		t.Fatalf("unexpected categories: %v", got)
	}

	got = tb.ClassificationCategories("Sports", "Basketball")
	if !reflect.DeepEqual(got, []events.Category{events.CategorySports}) {
		t.Fatalf("unexpected sports categories: %v", got)
	}

	got = tb.ClassificationCategories("", "Undefined")
	if !reflect.DeepEqual(got, []events.Category{events.CategoryEntertainment}) {
		t.Fatalf("expected fallback, got %v", got)
	}
}

func TestClassificationCategories_MatchesWholeWords(t *testing.T) {
	tb := Default()

	cases := []struct {
		signals []string
		want    []events.Category
	}{
		{[]string{"Health", "Therapy"}, []events.Category{events.CategoryEntertainment}},
		{[]string{"Business", "Career Guidance"}, []events.Category{events.CategoryEntertainment}},
		{[]string{"Sports", "Cross Country"}, []events.Category{events.CategorySports}},
		{[]string{"Music", "Hip-Hop/Rap"}, []events.Category{events.CategoryMusic}},
		{[]string{"Music", "R&B"}, []events.Category{events.CategoryMusic}},
		{[]string{"Food & Drink", "Concerts"}, []events.Category{events.CategoryMusic, events.CategoryFood, events.CategoryDrinks}},
	}
	for _, c := range cases {
		if got := tb.ClassificationCategories(c.signals...); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%v: expected %v, got %v", c.signals, c.want, got)
		}
	}
}

func TestPlaceCategories(t *testing.T) {
	tb := Default()

	cases := []struct {
		name  string
		types []string
		want  []events.Category
	}{
		{"The Endup", []string{"night_club", "point_of_interest"}, []events.Category{events.CategoryDrinks, events.CategoryMusic, events.CategoryDancing}},
		{"McDonald's", []string{"restaurant", "food"}, []events.Category{events.CategoryFastFood, events.CategoryDrinks}},
		{"Zuni Cafe", []string{"restaurant", "food"}, []events.Category{events.CategoryRestaurant, events.CategoryDrinks}},
		{"SFMOMA", []string{"museum"}, []events.Category{events.CategoryArt}},
		{"Somewhere", []string{"point_of_interest"}, []events.Category{}},
	}
	for _, c := range cases {
		if got := tb.PlaceCategories(c.name, c.types); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestPlacePrice(t *testing.T) {
	tb := Default()

	if got := tb.PlacePrice(Seeded("r"), []string{"restaurant"}, 3); got != 0 {
		t.Fatalf("restaurants must be free, got %d", got)
	}

	for i := 0; i < 50; i++ {
		p := tb.PlacePrice(Seeded("museum-"+strconv.Itoa(i)), []string{"museum"}, 0)
		if p < 1000 || p > 3000 || p%100 != 0 {
			t.Fatalf("museum price out of range: %d", p)
		}
		p = tb.PlacePrice(Seeded("bar-"+strconv.Itoa(i)), []string{"bar"}, 4)
		if p < 3500 || p > 6000 {
			t.Fatalf("price level 4 out of range: %d", p)
		}
		p = tb.PlacePrice(Seeded("x-"+strconv.Itoa(i)), nil, 0)
		if p != 0 && (p < 500 || p > 2500) {
			t.Fatalf("fallback price out of range: %d", p)
		}
	}
}

func TestPlaceFields_MultiTypeBarUsesBarRule(t *testing.T) {
	tb := Default()
	types := []string{"bar", "restaurant", "food", "point_of_interest", "establishment"}

	rule, ok := tb.PlaceRule(types)
	if !ok || rule.Type != "bar" {
		t.Fatalf("expected bar rule, got %+v %v", rule, ok)
	}
	if got := tb.PlaceCategories("Smuggler's Cove", types); !reflect.DeepEqual(got, []events.Category{events.CategoryDrinks, events.CategoryMusic, events.CategoryDancing}) {
		t.Fatalf("unexpected categories: %v", got)
	}
	if tb.IsDiningPlace(types) {
		t.Fatalf("a bar that also serves food is not a dining place")
	}
	for i := 0; i < 50; i++ {
		p := tb.PlacePrice(Seeded("cove-"+strconv.Itoa(i)), types, 4)
		if p < 3500 || p > 6000 {
			t.Fatalf("price level 4 out of range for bar+restaurant: %d", p)
		}
	}
	if got := tb.PlaceAge(types); got != events.Age21 {
		t.Fatalf("expected 21, got %q", got)
	}
	if start, end := tb.Schedule(types); start != "17:00" || end != "02:00" {
		t.Fatalf("expected bar schedule, got %s-%s", start, end)
	}

	// Solo tipos fuera de la tabla: defaults.
	if start, _ := tb.Schedule([]string{"point_of_interest"}); start != "18:00" {
		t.Fatalf("expected default schedule, got %s", start)
	}
	if got := tb.PlaceAge([]string{"point_of_interest"}); got != events.AgeAll {
		t.Fatalf("expected all, got %q", got)
	}
}

func TestCents(t *testing.T) {
	if Cents(25.5) != 2550 || Cents(-3) != 0 || Cents(0.1+0.2) != 30 {
		t.Fatalf("unexpected cents conversion")
	}
}

func TestAge(t *testing.T) {
	tb := Default()

	if got := tb.Age(true, false, "Music", "Pop"); got != events.Age21 {
		t.Fatalf("explicit legal age must win, got %q", got)
	}
	if got := tb.Age(false, false, "Music", "Rock", "Techno"); got != events.Age21 {
		t.Fatalf("strictest rule must win, got %q", got)
	}
	if got := tb.Age(false, false, "Music", "Hard Rock"); got != events.Age18 {
		t.Fatalf("expected 18 for rock, got %q", got)
	}
	if got := tb.Age(false, false, "Arts & Theatre"); got != events.AgeAll {
		t.Fatalf("expected all, got %q", got)
	}
	if got := tb.Age(false, false, "Business", "Career Guidance"); got != events.AgeAll {
		t.Fatalf("substring of a keyword must not raise the age, got %q", got)
	}
	if got := tb.Age(false, false, "Music", "Deep House"); got != events.Age21 {
		t.Fatalf("expected 21 for house, got %q", got)
	}
	if got := tb.PlaceAge([]string{"bar"}); got != events.Age21 {
		t.Fatalf("expected bars 21+, got %q", got)
	}
}

func TestDescription(t *testing.T) {
	tb := Default()

	long := strings.Repeat("word ", 60)
	d := tb.Description(long, "", "", "")
	if !strings.HasSuffix(d, "...") || len([]rune(d)) > 150 {
		t.Fatalf("expected truncated description, got %d runes: %q", len([]rune(d)), d)
	}
	if strings.Contains(d, "wor...") {
		t.Fatalf("expected cut at word boundary: %q", d)
	}

	if got := tb.Description("", "Music", "Jazz", "Blue Room"); got != "A jazz music night at Blue Room." {
		t.Fatalf("unexpected template: %q", got)
	}
	if got := tb.Description("  short   text ", "Music", "Jazz", "X"); got != "short text" {
		t.Fatalf("expected source text kept, got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Fillmore":           "the-fillmore",
		"  Bill Graham  Civic! ": "bill-graham-civic",
		"McDonald's #42":         "mcdonalds-42",
		"Café Du Nord":           "caf-du-nord",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClock(t *testing.T) {
	cases := map[string]string{
		"19:30":                     "19:30",
		"19:30:00":                  "19:30",
		"2025-03-01T21:05:00":       "21:05",
		"2025-03-01T21:05:00-08:00": "21:05",
	}
	for in, want := range cases {
		got, ok := Clock(in)
		if !ok || got != want {
			t.Fatalf("Clock(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
	if _, ok := Clock("tonight"); ok {
		t.Fatalf("expected failure for unparseable time")
	}
}
