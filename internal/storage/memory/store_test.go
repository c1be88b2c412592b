package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/civicreach/audience-manager/internal/domain"
)

func TestRecordLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	rec := &domain.Record{ID: "p1", Title: "Ops", Key: "ops", FilterGroups: []domain.FilterGroup{}}
	if err := store.CreateRecord(ctx, domain.KindPersona, rec); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	if err := store.CreateRecord(ctx, domain.KindPersona, rec); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	// The two families are separate namespaces
	if _, err := store.GetRecord(ctx, domain.KindAuthorityLevel, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound in other family, got %v", err)
	}

	got, err := store.GetRecord(ctx, domain.KindPersona, "p1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.Title != "Ops" {
		t.Errorf("Expected title 'Ops', got '%s'", got.Title)
	}

	got.Title = "Changed"
	if err := store.UpdateRecord(ctx, domain.KindPersona, got); err != nil {
		t.Fatalf("UpdateRecord failed: %v", err)
	}
	again, _ := store.GetRecord(ctx, domain.KindPersona, "p1")
	if again.Title != "Changed" {
		t.Errorf("Expected updated title, got '%s'", again.Title)
	}

	if err := store.UpdateRecord(ctx, domain.KindPersona, &domain.Record{ID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	removed, err := store.DeleteRecord(ctx, domain.KindPersona, "p1")
	if err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	if removed.ID != "p1" {
		t.Errorf("Expected removed p1, got %s", removed.ID)
	}
	if _, err := store.DeleteRecord(ctx, domain.KindPersona, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListOrderIsInsertionOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		rec := &domain.Record{ID: id, Title: id}
		if err := store.CreateRecord(ctx, domain.KindAuthorityLevel, rec); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	records, err := store.ListRecords(ctx, domain.KindAuthorityLevel)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, id := range []string{"a", "b", "c"} {
		if records[i].ID != id {
			t.Errorf("Expected position %d to be %s, got %s", i, id, records[i].ID)
		}
	}

	n, _ := store.CountRecords(ctx, domain.KindAuthorityLevel)
	if n != 3 {
		t.Errorf("Expected count 3, got %d", n)
	}
}

func TestBoundaryCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	rec := &domain.Record{
		ID: "p1",
		FilterGroups: []domain.FilterGroup{
			{ID: "g1", Operator: "OR", Filters: []domain.Filter{{ID: "f1", Value: "safety"}}},
		},
	}
	if err := store.CreateRecord(ctx, domain.KindPersona, rec); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	// Mutating the caller's value after create must not touch the store
	rec.FilterGroups[0].Filters[0].Value = "changed"
	got, _ := store.GetRecord(ctx, domain.KindPersona, "p1")
	if got.FilterGroups[0].Filters[0].Value != "safety" {
		t.Errorf("Create aliased caller memory: %s", got.FilterGroups[0].Filters[0].Value)
	}

	// Mutating a fetched value must not touch the store either
	got.FilterGroups[0].Filters[0].Value = "changed"
	again, _ := store.GetRecord(ctx, domain.KindPersona, "p1")
	if again.FilterGroups[0].Filters[0].Value != "safety" {
		t.Errorf("Get aliased store memory: %s", again.FilterGroups[0].Filters[0].Value)
	}
}

func TestTags(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.CreateTag(ctx, &domain.Tag{ID: "1", Type: "persona", Value: "Law Enforcement"})
	_ = store.CreateTag(ctx, &domain.Tag{ID: "2", Type: "keyword", Value: "safety"})

	if err := store.CreateTag(ctx, &domain.Tag{ID: "1", Type: "persona", Value: "dup"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	all, err := store.ListTags(ctx, "")
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(all))
	}

	keywords, _ := store.ListTags(ctx, "keyword")
	if len(keywords) != 1 || keywords[0].Value != "safety" {
		t.Errorf("Expected only the keyword tag, got %v", keywords)
	}

	n, _ := store.CountTags(ctx)
	if n != 2 {
		t.Errorf("Expected count 2, got %d", n)
	}
}

func TestOnboarding(t *testing.T) {
	store := New()
	ctx := context.Background()

	form, err := store.GetOnboarding(ctx)
	if err != nil {
		t.Fatalf("GetOnboarding failed: %v", err)
	}
	if len(form) != 0 {
		t.Errorf("Expected empty form, got %v", form)
	}

	if err := store.SaveOnboarding(ctx, domain.OnboardingForm{"0": map[string]any{"companyName": "CivicReach"}}); err != nil {
		t.Fatalf("SaveOnboarding failed: %v", err)
	}
	form, _ = store.GetOnboarding(ctx)
	step, _ := form["0"].(map[string]any)
	if step["companyName"] != "CivicReach" {
		t.Errorf("Expected saved form back, got %v", form)
	}

	// A new submission replaces the old one
	if err := store.SaveOnboarding(ctx, domain.OnboardingForm{"0": map[string]any{"companyName": "Other"}}); err != nil {
		t.Fatalf("SaveOnboarding failed: %v", err)
	}
	form, _ = store.GetOnboarding(ctx)
	step, _ = form["0"].(map[string]any)
	if step["companyName"] != "Other" {
		t.Errorf("Expected replaced form, got %v", form)
	}
}
