package seed

import (
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func TestGenerateIDsAreStable(t *testing.T) {
	g := NewSeededGenerator(1, fixedNow)
	records := g.Generate(3)

	if len(records) != 3 {
		t.Fatalf("len = %d", len(records))
	}
	for i, want := range []string{"fb_00001", "fb_00002", "fb_00003"} {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, want)
		}
	}
}

func TestGenerateFieldsComeFromVocabularies(t *testing.T) {
	g := NewSeededGenerator(42, fixedNow)

	for _, record := range g.Generate(50) {
		if !contains(sources, record.Source) {
			t.Errorf("unknown source %q", record.Source)
		}
		if !contains(userTypes, record.UserType) {
			t.Errorf("unknown user type %q", record.UserType)
		}
		if !contains(countries, record.Country) {
			t.Errorf("unknown country %q", record.Country)
		}
		if !contains(productAreas, record.ProductArea) {
			t.Errorf("unknown product area %q", record.ProductArea)
		}
		if record.Content == "" || strings.Contains(record.Content, "{p}") {
			t.Errorf("template placeholder left in content: %q", record.Content)
		}
		if !strings.Contains(record.Content, record.ProductArea) {
			t.Errorf("content %q does not mention product area %q", record.Content, record.ProductArea)
		}
	}
}

func TestGenerateTimestampsWithinWindow(t *testing.T) {
	g := NewSeededGenerator(7, fixedNow)
	now := fixedNow()
	oldest := now.AddDate(0, 0, -maxDaysAgo)

	for _, record := range g.Generate(100) {
		if record.CreatedAt.After(now) {
			t.Errorf("created_at %v is in the future", record.CreatedAt)
		}
		if record.CreatedAt.Before(oldest) {
			t.Errorf("created_at %v is older than %d days", record.CreatedAt, maxDaysAgo)
		}
	}
}

func TestGenerateIsReproducibleForSameSeed(t *testing.T) {
	first := NewSeededGenerator(99, fixedNow).Generate(10)
	second := NewSeededGenerator(99, fixedNow).Generate(10)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("records diverge at %d:\nfirst:  %+v\nsecond: %+v", i, first[i], second[i])
		}
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
