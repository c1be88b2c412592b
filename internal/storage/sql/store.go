package sql

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store implements the storage.Storage interface using SQL. The nested
// filter-group tree is stored as a JSON column; record list order is kept
// with an explicit position column because the API exposes insertion order.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store and runs pending migrations.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type recordRow struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Key          string `db:"key"`
	Contacts     string `db:"contacts"`
	FilterGroups []byte `db:"filter_groups"`
}

func (r *recordRow) toDomain() (*domain.Record, error) {
	rec := &domain.Record{
		ID:       r.ID,
		Title:    r.Title,
		Key:      r.Key,
		Contacts: r.Contacts,
	}
	if err := json.Unmarshal(r.FilterGroups, &rec.FilterGroups); err != nil {
		return nil, fmt.Errorf("decoding filter groups for record %s: %w", r.ID, err)
	}
	return rec, nil
}

func encodeGroups(groups []domain.FilterGroup) ([]byte, error) {
	if groups == nil {
		groups = []domain.FilterGroup{}
	}
	return json.Marshal(groups)
}

func (s *Store) ListRecords(ctx context.Context, kind domain.Kind) ([]*domain.Record, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, title, key, contacts, filter_groups FROM records
		 WHERE kind = $1 ORDER BY position`, string(kind))
	if err != nil {
		return nil, err
	}
	records := make([]*domain.Record, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) GetRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error) {
	var row recordRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, title, key, contacts, filter_groups FROM records
		 WHERE kind = $1 AND id = $2`, string(kind), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *Store) CreateRecord(ctx context.Context, kind domain.Kind, rec *domain.Record) error {
	groups, err := encodeGroups(rec.FilterGroups)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, title, key, contacts, filter_groups, position)
		 VALUES ($1, $2, $3, $4, $5, $6,
		         COALESCE((SELECT MAX(r.position) FROM records r WHERE r.kind = $1), 0) + 1)`,
		string(kind), rec.ID, rec.Title, rec.Key, rec.Contacts, groups)
	return err
}

func (s *Store) UpdateRecord(ctx context.Context, kind domain.Kind, rec *domain.Record) error {
	groups, err := encodeGroups(rec.FilterGroups)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET title = $3, key = $4, contacts = $5, filter_groups = $6
		 WHERE kind = $1 AND id = $2`,
		string(kind), rec.ID, rec.Title, rec.Key, rec.Contacts, groups)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error) {
	rec, err := s.GetRecord(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = $1 AND id = $2`, string(kind), id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) CountRecords(ctx context.Context, kind domain.Kind) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM records WHERE kind = $1`, string(kind))
	return n, err
}

type tagRow struct {
	ID           string        `db:"id"`
	Type         string        `db:"type"`
	Value        string        `db:"value"`
	ContactCount sql.NullInt64 `db:"contact_count"`
}

func (s *Store) ListTags(ctx context.Context, tagType string) ([]*domain.Tag, error) {
	query := `SELECT id, type, value, contact_count FROM tags ORDER BY id`
	args := []any{}
	if tagType != "" {
		query = `SELECT id, type, value, contact_count FROM tags WHERE type = $1 ORDER BY id`
		args = append(args, tagType)
	}
	var rows []tagRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	tags := make([]*domain.Tag, 0, len(rows))
	for _, row := range rows {
		tag := &domain.Tag{ID: row.ID, Type: row.Type, Value: row.Value}
		if row.ContactCount.Valid {
			tag.ContactCount = int(row.ContactCount.Int64)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	count := sql.NullInt64{}
	if tag.ContactCount != 0 {
		count = sql.NullInt64{Int64: int64(tag.ContactCount), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (id, type, value, contact_count) VALUES ($1, $2, $3, $4)`,
		tag.ID, tag.Type, tag.Value, count)
	return err
}

func (s *Store) CountTags(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tags`)
	return n, err
}

func (s *Store) SaveOnboarding(ctx context.Context, form domain.OnboardingForm) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO onboarding_submissions (id, payload) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`, payload)
	return err
}

func (s *Store) GetOnboarding(ctx context.Context) (domain.OnboardingForm, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload,
		`SELECT payload FROM onboarding_submissions WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OnboardingForm{}, nil
	}
	if err != nil {
		return nil, err
	}
	var form domain.OnboardingForm
	if err := json.Unmarshal(payload, &form); err != nil {
		return nil, fmt.Errorf("decoding onboarding payload: %w", err)
	}
	return form, nil
}
