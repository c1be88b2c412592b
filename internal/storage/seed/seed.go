// Package seed holds the demo dataset the service starts with. A restart
// resets to this data; nothing here is meant to survive the process.
package seed

import (
	"context"
	"fmt"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/storage"
	"github.com/google/uuid"
)

// Personas returns the sample persona records.
func Personas() []*domain.Record {
	return []*domain.Record{
		{
			ID:       uuid.NewString(),
			Title:    "Law Enforcement",
			Key:      "law_enforcement",
			Contacts: domain.RandomContactCount(),
			FilterGroups: []domain.FilterGroup{
				{
					ID:       uuid.NewString(),
					Operator: domain.OperatorOr,
					Filters: []domain.Filter{
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Police Chief"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Detective"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Police"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Marshal"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Sheriff"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Police Services"},
					},
				},
				{
					ID:       uuid.NewString(),
					Operator: domain.OperatorAnd,
					Filters: []domain.Filter{
						{ID: uuid.NewString(), Type: "Department", Operator: domain.FilterContains, Value: "Department"},
					},
				},
			},
		},
		{
			ID:       uuid.NewString(),
			Title:    "Fire and Rescue Services",
			Key:      "fire_rescue",
			Contacts: domain.RandomContactCount(),
			FilterGroups: []domain.FilterGroup{
				{
					ID:       uuid.NewString(),
					Operator: domain.OperatorOr,
					Filters: []domain.Filter{
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Fire Chief"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Firefighter"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Fire Marshal"},
					},
				},
			},
		},
		plain("Finance", "finance"),
		plain("Human Resources", "hr"),
		plain("Economic Development", "economic_dev"),
		plain("Communications", "communications"),
		plain("Utilities", "utilities"),
		plain("Administration", "admin"),
		plain("Planning / Building", "planning"),
		plain("Elected Officials", "elected"),
		plain("Procurement", "procurement"),
	}
}

// AuthorityLevels returns the sample authority level records.
func AuthorityLevels() []*domain.Record {
	return []*domain.Record{
		{
			ID:       uuid.NewString(),
			Title:    "C Level",
			Key:      "c_level",
			Contacts: domain.RandomContactCount(),
			FilterGroups: []domain.FilterGroup{
				{
					ID:       uuid.NewString(),
					Operator: domain.OperatorOr,
					Filters: []domain.Filter{
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "CEO"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "CTO"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "CFO"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "CIO"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "CISO"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Chief"},
					},
				},
			},
		},
		{
			ID:       uuid.NewString(),
			Title:    "Director",
			Key:      "director",
			Contacts: domain.RandomContactCount(),
			FilterGroups: []domain.FilterGroup{
				{
					ID:       uuid.NewString(),
					Operator: domain.OperatorOr,
					Filters: []domain.Filter{
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Director"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Head of"},
					},
				},
			},
		},
		{
			ID:       uuid.NewString(),
			Title:    "Manager",
			Key:      "manager",
			Contacts: domain.RandomContactCount(),
			FilterGroups: []domain.FilterGroup{
				{
					ID:       uuid.NewString(),
					Operator: domain.OperatorOr,
					Filters: []domain.Filter{
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Manager"},
						{ID: uuid.NewString(), Type: "Title", Operator: domain.FilterContains, Value: "Lead"},
					},
				},
			},
		},
		plain("Individual Contributor", "individual_contributor"),
		plain("Gatekeeper", "gatekeeper"),
	}
}

// Tags returns the flat segment-tag demo list.
func Tags() []*domain.Tag {
	return []*domain.Tag{
		{ID: "1", Type: domain.TagPersona, Value: "Law Enforcement", ContactCount: 140216},
		{ID: "2", Type: domain.TagPersona, Value: "Fire and Rescue Services", ContactCount: 124982},
		{ID: "3", Type: domain.TagPersona, Value: "Finance", ContactCount: 217447},
		{ID: "4", Type: domain.TagAuthorityLevel, Value: "C Level", ContactCount: 537966},
		{ID: "5", Type: domain.TagAuthorityLevel, Value: "Director", ContactCount: 821094},
		{ID: "6", Type: domain.TagAuthorityLevel, Value: "Manager", ContactCount: 312398},
		{ID: "7", Type: domain.TagKeyword, Value: "Higher education"},
		{ID: "8", Type: domain.TagKeyword, Value: "Student success"},
		{ID: "9", Type: domain.TagKeyword, Value: "Degree completion"},
		{ID: "10", Type: domain.TagKeyword, Value: "Student retention"},
		{ID: "11", Type: domain.TagKeyword, Value: "Academic pathways"},
	}
}

func plain(title, key string) *domain.Record {
	return &domain.Record{
		ID:           uuid.NewString(),
		Title:        title,
		Key:          key,
		Contacts:     domain.RandomContactCount(),
		FilterGroups: []domain.FilterGroup{},
	}
}

// Ensure populates the store with the demo dataset for every collection that
// is currently empty.
func Ensure(ctx context.Context, store storage.Storage) error {
	for _, kind := range domain.Kinds() {
		n, err := store.CountRecords(ctx, kind)
		if err != nil {
			return fmt.Errorf("counting %s records: %w", kind.Path(), err)
		}
		if n > 0 {
			continue
		}
		records := Personas()
		if kind == domain.KindAuthorityLevel {
			records = AuthorityLevels()
		}
		for _, rec := range records {
			if err := store.CreateRecord(ctx, kind, rec); err != nil {
				return fmt.Errorf("seeding %s records: %w", kind.Path(), err)
			}
		}
	}

	n, err := store.CountTags(ctx)
	if err != nil {
		return fmt.Errorf("counting tags: %w", err)
	}
	if n == 0 {
		for _, tag := range Tags() {
			if err := store.CreateTag(ctx, tag); err != nil {
				return fmt.Errorf("seeding tags: %w", err)
			}
		}
	}
	return nil
}
