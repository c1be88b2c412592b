package storage

import (
	"context"

	"github.com/civicreach/audience-manager/internal/domain"
)

// Storage defines the interface for the storage layer. One set of record
// operations serves both families, selected by domain.Kind; the nested
// group/filter edits happen on the record value between Get and Update.
// Implementations must be safe for concurrent use and must preserve
// insertion order when listing records.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// Records
	ListRecords(ctx context.Context, kind domain.Kind) ([]*domain.Record, error)
	GetRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error)
	CreateRecord(ctx context.Context, kind domain.Kind, rec *domain.Record) error
	UpdateRecord(ctx context.Context, kind domain.Kind, rec *domain.Record) error
	DeleteRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error)
	CountRecords(ctx context.Context, kind domain.Kind) (int, error)

	// Segment tags (flat demo list)
	ListTags(ctx context.Context, tagType string) ([]*domain.Tag, error)
	CreateTag(ctx context.Context, tag *domain.Tag) error
	CountTags(ctx context.Context) (int, error)

	// Onboarding submission (single process-wide payload)
	SaveOnboarding(ctx context.Context, form domain.OnboardingForm) error
	GetOnboarding(ctx context.Context) (domain.OnboardingForm, error)
}
