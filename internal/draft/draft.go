// Package draft implements the client-side editing model for personas and
// authority levels: a mirror of the server's collection plus one draft
// record under edit. Every edit, structural or not, touches only the
// local deep copy; nothing reaches the server until an explicit Submit,
// which creates or replaces the whole record in one call.
package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/pkg/client"
	"github.com/google/uuid"
)

// ErrNoDraft is returned by edit operations when nothing is selected.
var ErrNoDraft = errors.New("no draft selected")

// ErrIncomplete is returned by Submit when the draft is missing its title
// or key.
var ErrIncomplete = errors.New("draft is missing required fields")

// Editor manages one record family's collection and the draft being
// edited. The draft moves through unselected, selected-clean,
// selected-dirty, and back via Submit or Discard. All methods are safe
// for concurrent use.
type Editor struct {
	mu      sync.Mutex
	api     *client.Client
	kind    domain.Kind
	notices *Notices

	records  []*domain.Record
	draft    *domain.Record
	draftNew bool
	dirty    bool

	// confirm gates discarding unsaved edits and deletions. The default
	// accepts everything.
	confirm func(message string) bool
}

// NewEditor creates an editor for one record family.
func NewEditor(api *client.Client, kind domain.Kind) *Editor {
	return &Editor{
		api:     api,
		kind:    kind,
		notices: NewNotices(),
		confirm: func(string) bool { return true },
	}
}

// SetConfirm installs the confirmation prompt used before discarding
// unsaved edits or deleting a record.
func (e *Editor) SetConfirm(confirm func(message string) bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirm = confirm
}

// Notices exposes the editor's banner holder.
func (e *Editor) Notices() *Notices {
	return e.notices
}

// Load replaces the mirror with the server's collection and drops any
// selection.
func (e *Editor) Load(ctx context.Context) error {
	records, err := e.api.ListRecords(ctx, e.kind)
	if err != nil {
		e.postAPIError(err, "Failed to load "+e.kind.Plural())
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = records
	e.draft = nil
	e.draftNew = false
	e.dirty = false
	return nil
}

// Records returns a snapshot of the mirrored collection.
func (e *Editor) Records() []*domain.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*domain.Record, len(e.records))
	for i, rec := range e.records {
		out[i] = rec.Clone()
	}
	return out
}

// Draft returns a copy of the current draft, or nil.
func (e *Editor) Draft() *domain.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Dirty reports whether the draft has unsaved edits.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Select makes the mirrored record with the given id the draft, working
// on a deep copy so edits never leak into the mirror. Selecting over a
// dirty draft asks for confirmation; declining leaves the current draft
// untouched.
func (e *Editor) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft != nil && e.dirty && !e.confirm("Discard unsaved changes?") {
		return nil
	}
	for _, rec := range e.records {
		if rec.ID == id {
			e.draft = rec.Clone()
			e.draftNew = false
			e.dirty = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// NewDraft starts an unsaved record under a temporary id. It exists only
// locally until Submit. The same discard confirmation as Select applies.
func (e *Editor) NewDraft() *domain.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft != nil && e.dirty && !e.confirm("Discard unsaved changes?") {
		return e.draft.Clone()
	}
	e.draft = &domain.Record{
		ID:           uuid.New().String(),
		FilterGroups: []domain.FilterGroup{},
	}
	e.draftNew = true
	e.dirty = false
	return e.draft.Clone()
}

// SetTitle updates the draft title.
func (e *Editor) SetTitle(title string) error {
	return e.edit(func(rec *domain.Record) error {
		rec.Title = title
		return nil
	})
}

// SetKey updates the draft key.
func (e *Editor) SetKey(key string) error {
	return e.edit(func(rec *domain.Record) error {
		rec.Key = key
		return nil
	})
}

// AddGroup appends an empty group to the draft. A missing operator
// defaults to OR.
func (e *Editor) AddGroup(operator string) error {
	if operator == "" {
		operator = domain.OperatorOr
	}
	return e.edit(func(rec *domain.Record) error {
		rec.AddGroup(domain.FilterGroup{
			ID:       uuid.New().String(),
			Operator: operator,
			Filters:  []domain.Filter{},
		})
		return nil
	})
}

// RemoveGroup deletes a group and its filters from the draft.
func (e *Editor) RemoveGroup(groupID string) error {
	return e.edit(func(rec *domain.Record) error {
		_, err := rec.RemoveGroup(groupID)
		return err
	})
}

// SetGroupOperator changes a group's boolean operator.
func (e *Editor) SetGroupOperator(groupID, operator string) error {
	return e.edit(func(rec *domain.Record) error {
		_, err := rec.SetGroupOperator(groupID, operator)
		return err
	})
}

// AddFilter places a filter on the draft. GroupID may name an existing
// group, be empty for the first group, or be "new" for a fresh group.
func (e *Editor) AddFilter(req domain.CreateFilterRequest) error {
	return e.edit(func(rec *domain.Record) error {
		filter := domain.Filter{
			ID:       uuid.New().String(),
			Type:     req.Type,
			Operator: req.Operator,
			Value:    req.Value,
		}
		_, err := rec.PlaceFilter(filter, req.GroupID, uuid.New().String())
		return err
	})
}

// UpdateFilter partial-merges upd onto a filter of the draft.
func (e *Editor) UpdateFilter(filterID string, upd domain.FilterUpdate) error {
	return e.edit(func(rec *domain.Record) error {
		return rec.UpdateFilter(filterID, upd)
	})
}

// RemoveFilter deletes a filter from the draft, pruning an emptied group
// the same way the server does.
func (e *Editor) RemoveFilter(filterID string) error {
	return e.edit(func(rec *domain.Record) error {
		return rec.RemoveFilter(filterID)
	})
}

// edit applies fn to the draft and marks it dirty on success.
func (e *Editor) edit(fn func(*domain.Record) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return ErrNoDraft
	}
	if err := fn(e.draft); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// Submit saves the draft: POST for a never-persisted draft, PUT of the
// full record otherwise. The mirror entry is replaced with the server's
// response and the draft marked clean. A draft missing its title or key
// never reaches the network.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.draft == nil {
		e.mu.Unlock()
		return ErrNoDraft
	}
	if e.draft.Title == "" || e.draft.Key == "" {
		e.mu.Unlock()
		e.notices.Post("Title and key are required", true, 0)
		return ErrIncomplete
	}
	draft := e.draft.Clone()
	isNew := e.draftNew
	e.mu.Unlock()

	var saved *domain.Record
	var err error
	if isNew {
		saved, err = e.api.CreateRecord(ctx, e.kind, domain.CreateRecordRequest{
			Title:        draft.Title,
			Key:          draft.Key,
			Contacts:     draft.Contacts,
			FilterGroups: draft.FilterGroups,
		})
	} else {
		saved, err = e.api.UpdateRecord(ctx, e.kind, draft.ID, domain.UpdateRecordRequest{
			Title:        draft.Title,
			Key:          draft.Key,
			Contacts:     &draft.Contacts,
			FilterGroups: &draft.FilterGroups,
		})
	}
	if err != nil {
		e.postAPIError(err, "Failed to save "+e.kind.Singular())
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.replaceOrAppend(saved)
	e.draft = saved.Clone()
	e.draftNew = false
	e.dirty = false
	e.notices.Post(fmt.Sprintf("%s saved", e.kind.Label()), false, 0)
	return nil
}

// Delete removes the draft's record after confirmation. A never-persisted
// draft is discarded locally without a network call.
func (e *Editor) Delete(ctx context.Context) error {
	e.mu.Lock()
	if e.draft == nil {
		e.mu.Unlock()
		return ErrNoDraft
	}
	id := e.draft.ID
	title := e.draft.Title
	isNew := e.draftNew
	confirm := e.confirm
	e.mu.Unlock()

	if !confirm(fmt.Sprintf("Delete %q?", title)) {
		return nil
	}
	if isNew {
		e.Discard()
		return nil
	}

	if _, err := e.api.DeleteRecord(ctx, e.kind, id); err != nil {
		e.postAPIError(err, "Failed to delete "+e.kind.Singular())
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, rec := range e.records {
		if rec.ID == id {
			e.records = append(e.records[:i], e.records[i+1:]...)
			break
		}
	}
	e.draft = nil
	e.draftNew = false
	e.dirty = false
	return nil
}

// Discard drops the draft and any unsaved edits.
func (e *Editor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
	e.draftNew = false
	e.dirty = false
}

func (e *Editor) replaceOrAppend(rec *domain.Record) {
	for i, existing := range e.records {
		if existing.ID == rec.ID {
			e.records[i] = rec.Clone()
			return
		}
	}
	e.records = append(e.records, rec.Clone())
}

// postAPIError surfaces an API failure as a banner, honoring the server's
// display hint when present.
func (e *Editor) postAPIError(err error, fallback string) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		ttl := time.Duration(apiErr.ShowFor) * time.Millisecond
		e.notices.Post(apiErr.Message, true, ttl)
		return
	}
	e.notices.Post(fallback, true, 0)
}
