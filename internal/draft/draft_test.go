package draft_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/civicreach/audience-manager/internal/api"
	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/draft"
	"github.com/civicreach/audience-manager/internal/storage/memory"
	"github.com/civicreach/audience-manager/pkg/client"
)

func newEditor(t *testing.T, kind domain.Kind) (*draft.Editor, *memory.Store) {
	t.Helper()
	store := memory.New()
	srv := httptest.NewServer(api.NewRouter(store, []string{"*"}))
	t.Cleanup(srv.Close)
	return draft.NewEditor(client.New(srv.URL), kind), store
}

func seedPersona(t *testing.T, store *memory.Store, id, title, key string) {
	t.Helper()
	rec := &domain.Record{ID: id, Title: title, Key: key, FilterGroups: []domain.FilterGroup{}}
	if err := store.CreateRecord(context.Background(), domain.KindPersona, rec); err != nil {
		t.Fatalf("seeding record failed: %v", err)
	}
}

func TestSubmitNewDraft(t *testing.T) {
	ed, store := newEditor(t, domain.KindPersona)
	ctx := context.Background()

	ed.NewDraft()
	if err := ed.SetTitle("Field Teams"); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if err := ed.SetKey("field_teams"); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	if !ed.Dirty() {
		t.Error("Expected draft to be dirty before submit")
	}

	if err := ed.Submit(ctx); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if ed.Dirty() {
		t.Error("Expected draft clean after submit")
	}

	// The record reached the server
	records, _ := store.ListRecords(ctx, domain.KindPersona)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record on server, got %d", len(records))
	}
	if records[0].Title != "Field Teams" {
		t.Errorf("Expected title 'Field Teams', got '%s'", records[0].Title)
	}

	// And the mirror
	if len(ed.Records()) != 1 {
		t.Errorf("Expected 1 mirrored record, got %d", len(ed.Records()))
	}

	// A success banner is showing
	notice := ed.Notices().Current()
	if notice == nil || notice.IsError {
		t.Errorf("Expected success notice, got %v", notice)
	}
}

func TestSubmitValidatesLocally(t *testing.T) {
	ed, store := newEditor(t, domain.KindPersona)
	ctx := context.Background()

	ed.NewDraft()
	_ = ed.SetTitle("Missing Key")

	err := ed.Submit(ctx)
	if !errors.Is(err, draft.ErrIncomplete) {
		t.Fatalf("Expected ErrIncomplete, got %v", err)
	}

	// Nothing was sent
	records, _ := store.ListRecords(ctx, domain.KindPersona)
	if len(records) != 0 {
		t.Errorf("Expected no records on server, got %d", len(records))
	}

	// The failure surfaced as an error banner
	notice := ed.Notices().Current()
	if notice == nil || !notice.IsError {
		t.Fatalf("Expected an error notice, got %v", notice)
	}
}

func TestEditsStayLocalUntilSubmit(t *testing.T) {
	ed, store := newEditor(t, domain.KindPersona)
	ctx := context.Background()

	seedPersona(t, store, "p1", "Ops", "ops")
	if err := ed.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := ed.Select("p1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// Title plus a full structural edit, all local
	_ = ed.SetTitle("Renamed")
	if err := ed.AddGroup("AND"); err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	if err := ed.AddFilter(domain.CreateFilterRequest{
		Type: "keyword", Operator: "Contains", Value: "safety",
	}); err != nil {
		t.Fatalf("AddFilter failed: %v", err)
	}

	got, _ := store.GetRecord(ctx, domain.KindPersona, "p1")
	if got.Title != "Ops" || len(got.FilterGroups) != 0 {
		t.Errorf("Expected server untouched before submit, got %+v", got)
	}

	// The mirror is untouched too
	if mirror := ed.Records()[0]; mirror.Title != "Ops" || len(mirror.FilterGroups) != 0 {
		t.Errorf("Expected mirror untouched before submit, got %+v", mirror)
	}

	// Submit pushes the whole record in one call
	if err := ed.Submit(ctx); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	got, _ = store.GetRecord(ctx, domain.KindPersona, "p1")
	if got.Title != "Renamed" {
		t.Errorf("Expected server title 'Renamed', got '%s'", got.Title)
	}
	if len(got.FilterGroups) != 1 || len(got.FilterGroups[0].Filters) != 1 {
		t.Fatalf("Expected the draft's groups on the server, got %+v", got.FilterGroups)
	}
	if got.FilterGroups[0].Filters[0].Value != "safety" {
		t.Errorf("Expected filter value 'safety', got '%s'", got.FilterGroups[0].Filters[0].Value)
	}
}

func TestLocalFilterPlacementAndPruning(t *testing.T) {
	ed, _ := newEditor(t, domain.KindPersona)

	ed.NewDraft()

	// First filter with no target creates a fresh OR group
	if err := ed.AddFilter(domain.CreateFilterRequest{
		Type: "keyword", Operator: "Contains", Value: "safety",
	}); err != nil {
		t.Fatalf("AddFilter failed: %v", err)
	}
	d := ed.Draft()
	if len(d.FilterGroups) != 1 || d.FilterGroups[0].Operator != "OR" {
		t.Fatalf("Expected one fresh OR group, got %+v", d.FilterGroups)
	}

	// The "new" sentinel forces another group
	if err := ed.AddFilter(domain.CreateFilterRequest{
		Type: "keyword", Operator: "Contains", Value: "urgent", GroupID: "new",
	}); err != nil {
		t.Fatalf("AddFilter failed: %v", err)
	}
	d = ed.Draft()
	if len(d.FilterGroups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(d.FilterGroups))
	}

	// Removing a group's only filter prunes the group, like the server
	if err := ed.RemoveFilter(d.FilterGroups[1].Filters[0].ID); err != nil {
		t.Fatalf("RemoveFilter failed: %v", err)
	}
	d = ed.Draft()
	if len(d.FilterGroups) != 1 {
		t.Errorf("Expected emptied group pruned, got %d groups", len(d.FilterGroups))
	}

	// Unknown ids are errors
	if err := ed.RemoveFilter("nonexistent"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := ed.SetGroupOperator("nonexistent", "AND"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSelectOverDirtyDraftConfirms(t *testing.T) {
	ed, store := newEditor(t, domain.KindPersona)
	ctx := context.Background()

	seedPersona(t, store, "p1", "Ops", "ops")
	seedPersona(t, store, "p2", "Fire", "fire")
	if err := ed.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := ed.Select("p1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	_ = ed.SetTitle("Renamed")

	// Declining keeps the dirty draft in place
	ed.SetConfirm(func(string) bool { return false })
	if err := ed.Select("p2"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if d := ed.Draft(); d.ID != "p1" || d.Title != "Renamed" {
		t.Errorf("Expected dirty p1 draft kept, got %+v", d)
	}
	if !ed.Dirty() {
		t.Error("Expected draft still dirty after declined switch")
	}

	// Accepting discards and switches
	ed.SetConfirm(func(string) bool { return true })
	if err := ed.Select("p2"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if d := ed.Draft(); d.ID != "p2" {
		t.Errorf("Expected p2 selected, got %+v", d)
	}
	if ed.Dirty() {
		t.Error("Expected clean draft after switch")
	}
}

func TestDeleteConfirmAndLocalSkip(t *testing.T) {
	ed, store := newEditor(t, domain.KindPersona)
	ctx := context.Background()

	seedPersona(t, store, "p1", "Ops", "ops")
	if err := ed.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := ed.Select("p1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// Declined confirmation leaves everything in place
	ed.SetConfirm(func(string) bool { return false })
	if err := ed.Delete(ctx); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetRecord(ctx, domain.KindPersona, "p1"); err != nil {
		t.Errorf("Expected record to survive declined delete: %v", err)
	}

	// Accepted confirmation removes it
	ed.SetConfirm(func(string) bool { return true })
	if err := ed.Delete(ctx); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetRecord(ctx, domain.KindPersona, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected record deleted, got %v", err)
	}
	if len(ed.Records()) != 0 {
		t.Errorf("Expected empty mirror, got %d records", len(ed.Records()))
	}

	// An unsaved draft is discarded without a network call
	ed.NewDraft()
	if err := ed.Delete(ctx); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ed.Draft() != nil {
		t.Error("Expected draft discarded")
	}
}

func TestServerErrorPostsNotice(t *testing.T) {
	ed, store := newEditor(t, domain.KindPersona)
	ctx := context.Background()

	seedPersona(t, store, "p1", "Ops", "ops")
	if err := ed.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := ed.Select("p1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// The record disappears behind the editor's back; delete now 404s
	if _, err := store.DeleteRecord(ctx, domain.KindPersona, "p1"); err != nil {
		t.Fatalf("store delete failed: %v", err)
	}

	err := ed.Delete(ctx)
	if err == nil {
		t.Fatal("Expected Delete to fail")
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Status != 404 {
		t.Errorf("Expected status 404, got %d", apiErr.Status)
	}
	if apiErr.ShowFor != 2500 {
		t.Errorf("Expected showFor 2500, got %d", apiErr.ShowFor)
	}

	notice := ed.Notices().Current()
	if notice == nil || notice.Message != "Persona not found" {
		t.Errorf("Unexpected notice: %v", notice)
	}
}

func TestNoticeExpiry(t *testing.T) {
	n := draft.NewNotices()

	n.Post("first", true, 50*time.Millisecond)
	if cur := n.Current(); cur == nil || cur.Message != "first" {
		t.Fatalf("Expected 'first' notice, got %v", cur)
	}

	// A newer notice supersedes the older one's timer
	n.Post("second", false, time.Hour)
	time.Sleep(200 * time.Millisecond)
	if cur := n.Current(); cur == nil || cur.Message != "second" {
		t.Errorf("Stale timer cleared the newer notice: %v", cur)
	}

	// The newer notice's own expiry still works
	n.Post("third", false, 50*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	if cur := n.Current(); cur != nil {
		t.Errorf("Expected notice expired, got %v", cur)
	}

	n.Post("fourth", false, 0)
	n.Clear()
	if cur := n.Current(); cur != nil {
		t.Errorf("Expected cleared notice, got %v", cur)
	}
}
