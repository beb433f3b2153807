package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var _ RecordStore = &PostgresRecordStore{}

// identPattern restricts collection names to plain lowercase identifiers
// since they are interpolated into SQL as table names.
var identPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// PostgresRecordStore persists documents as JSONB rows, one table per
// collection. It implements the same contract as the Mongo adapter so
// the backing technology can be swapped through configuration alone.
type PostgresRecordStore struct {
	db *sql.DB
}

func NewPostgresRecordStore(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

const ddlCollectionFmt = `
CREATE TABLE IF NOT EXISTS %s (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	doc jsonb NOT NULL
)
`

// EnsureCollection creates the backing table for a collection when it
// does not exist yet. Called once at startup for the configured
// collection.
func (s *PostgresRecordStore) EnsureCollection(ctx context.Context, collection string) error {
	if err := checkIdent(collection); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(ddlCollectionFmt, collection)); err != nil {
		return fmt.Errorf("%w: ensure collection %s: %v", ErrUnavailable, collection, err)
	}
	return nil
}

func (s *PostgresRecordStore) Create(ctx context.Context, collection string, fields Fields) (*Record, error) {
	if err := checkIdent(collection); err != nil {
		return nil, err
	}

	doc, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: encode fields: %v", ErrInvalid, err)
	}

	query := fmt.Sprintf("INSERT INTO %s (doc) VALUES ($1::jsonb) RETURNING id", collection)
	var id string
	if err := s.db.QueryRowContext(ctx, query, doc).Scan(&id); err != nil {
		return nil, fmt.Errorf("%w: insert into %s: %v", ErrUnavailable, collection, err)
	}

	return &Record{ID: id, Fields: fields}, nil
}

func (s *PostgresRecordStore) List(ctx context.Context, collection string, opts ListOptions) ([]Record, error) {
	if err := checkIdent(collection); err != nil {
		return nil, err
	}

	order := "ASC"
	if opts.Direction == Descending {
		order = "DESC"
	}
	query := fmt.Sprintf("SELECT id, doc FROM %s ORDER BY doc->>'%s' %s", collection, opts.SortField, order)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrUnavailable, collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("%w: scan row in %s: %v", ErrUnavailable, collection, err)
		}

		var fields Fields
		if err := json.Unmarshal(doc, &fields); err != nil {
			return nil, fmt.Errorf("%w: decode doc for row %s: %v", ErrUnavailable, id, err)
		}
		records = append(records, Record{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate over %s rows: %v", ErrUnavailable, collection, err)
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *PostgresRecordStore) Update(ctx context.Context, collection, id string, fields Fields) (*Record, error) {
	if err := checkIdent(collection); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: no row with id %s in %s", ErrNotFound, id, collection)
	}

	doc, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: encode fields: %v", ErrInvalid, err)
	}

	query := fmt.Sprintf("UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1 RETURNING id, doc", collection)
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, id, doc))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no row with id %s in %s", ErrNotFound, id, collection)
		}
		return nil, fmt.Errorf("%w: update %s in %s: %v", ErrUnavailable, id, collection, err)
	}
	return record, nil
}

func (s *PostgresRecordStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkIdent(collection); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: no row with id %s in %s", ErrNotFound, id, collection)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 RETURNING id", collection)
	var deleted string
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no row with id %s in %s", ErrNotFound, id, collection)
		}
		return fmt.Errorf("%w: delete %s from %s: %v", ErrUnavailable, id, collection, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		id  string
		doc []byte
	)
	if err := row.Scan(&id, &doc); err != nil {
		return nil, err
	}

	var fields Fields
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, fmt.Errorf("%w: decode doc for row %s: %v", ErrUnavailable, id, err)
	}
	return &Record{ID: id, Fields: fields}, nil
}

func checkIdent(collection string) error {
	if !identPattern.MatchString(collection) {
		return fmt.Errorf("%w: invalid collection name %q", ErrInvalid, collection)
	}
	return nil
}
