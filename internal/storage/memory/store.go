package memory

import (
	"context"
	"sync"

	"github.com/civicreach/audience-manager/internal/domain"
)

// Store is an in-memory implementation of the storage interface. Records
// live in ordered slices so list order is insertion order; all values are
// deep-copied at the boundary so callers can edit a record and commit it
// back with UpdateRecord without aliasing store state.
type Store struct {
	mu sync.RWMutex

	records    map[domain.Kind][]*domain.Record
	tags       []*domain.Tag
	onboarding domain.OnboardingForm
}

// New creates a new empty in-memory store.
func New() *Store {
	return &Store{
		records: map[domain.Kind][]*domain.Record{
			domain.KindPersona:        {},
			domain.KindAuthorityLevel: {},
		},
	}
}

func (s *Store) Close() error { return nil }

// indexOf returns the position of id in the kind's list, or -1. Caller must
// hold the lock.
func (s *Store) indexOf(kind domain.Kind, id string) int {
	for i, rec := range s.records[kind] {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) ListRecords(ctx context.Context, kind domain.Kind) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Record, 0, len(s.records[kind]))
	for _, rec := range s.records[kind] {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (s *Store) GetRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(kind, id); i >= 0 {
		return s.records[kind][i].Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateRecord(ctx context.Context, kind domain.Kind, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(kind, rec.ID) >= 0 {
		return domain.ErrAlreadyExists
	}
	s.records[kind] = append(s.records[kind], rec.Clone())
	return nil
}

func (s *Store) UpdateRecord(ctx context.Context, kind domain.Kind, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(kind, rec.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.records[kind][i] = rec.Clone()
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(kind, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	removed := s.records[kind][i]
	s.records[kind] = append(s.records[kind][:i], s.records[kind][i+1:]...)
	return removed, nil
}

func (s *Store) CountRecords(ctx context.Context, kind domain.Kind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[kind]), nil
}

func (s *Store) ListTags(ctx context.Context, tagType string) ([]*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		if tagType != "" && tag.Type != tagType {
			continue
		}
		copied := *tag
		out = append(out, &copied)
	}
	return out, nil
}

func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tags {
		if existing.ID == tag.ID {
			return domain.ErrAlreadyExists
		}
	}
	copied := *tag
	s.tags = append(s.tags, &copied)
	return nil
}

func (s *Store) CountTags(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tags), nil
}

func (s *Store) SaveOnboarding(ctx context.Context, form domain.OnboardingForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarding = form
	return nil
}

func (s *Store) GetOnboarding(ctx context.Context) (domain.OnboardingForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.onboarding == nil {
		return domain.OnboardingForm{}, nil
	}
	return s.onboarding, nil
}
