// Package store defines the backend-agnostic persistence contracts of the
// recipe API and their concrete adapters. Record stores persist schemaless
// documents grouped into named collections; file stores persist opaque
// binary payloads addressed by a stable id. Adapters are stateless proxies:
// every call is a single round trip to the backend, failures surface
// immediately and no adapter retries or caches.
package store

import (
	"context"
	"errors"
	"io"
	"time"
)

// Error kinds. Adapters wrap backend failures with exactly one of these
// sentinels so callers can map them to HTTP status codes with errors.Is.
var (
	ErrInvalid     = errors.New("store: invalid input")
	ErrNotFound    = errors.New("store: not found")
	ErrUnavailable = errors.New("store: backend unavailable")
)

// TimeLayout is the fixed-width UTC timestamp format used for the
// createdAt field. Unlike RFC3339Nano it never trims trailing zeros, so
// lexicographic ordering of formatted values equals chronological
// ordering and sorting can be delegated to any backend as a plain
// string comparison.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Fields is the schemaless field mapping of a stored document.
type Fields map[string]any

// Record is a persisted document: the backend-assigned id plus the field
// mapping echoed back by the backend.
type Record struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// SortDirection is the ordering of a listed collection.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Ascending {
		return "ascending"
	}
	return "descending"
}

// SortField is a typed reference to a sortable document field.
type SortField string

const SortByCreatedAt SortField = "createdAt"

// ListOptions control the backend-side ordering of List results.
type ListOptions struct {
	SortField SortField
	Direction SortDirection
}

// DefaultListOptions orders by creation time, newest first.
func DefaultListOptions() ListOptions {
	return ListOptions{SortField: SortByCreatedAt, Direction: Descending}
}

// RecordStore is the contract of a document persistence backend.
type RecordStore interface {
	// Create persists a new document. The backend assigns the id and
	// echoes all fields back.
	Create(ctx context.Context, collection string, fields Fields) (*Record, error)

	// List returns every document in the collection, ordered by the
	// backend according to opts.
	List(ctx context.Context, collection string, opts ListOptions) ([]Record, error)

	// Update merges the named fields into the existing document. Fields
	// omitted from the input are left unchanged. Repeating an identical
	// call leaves the document identical.
	Update(ctx context.Context, collection, id string, fields Fields) (*Record, error)

	// Delete removes the document.
	Delete(ctx context.Context, collection, id string) error
}

// FileStore is the contract of a binary object storage backend. The
// read and write permission lists are opaque passthrough values; the
// adapters forward them without interpreting their semantics.
type FileStore interface {
	// Store persists the bytes read from src under a new stable id.
	Store(ctx context.Context, name string, src io.Reader, read, write []string) (string, error)

	// Open returns the stored bytes for id. The caller closes the reader.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// Remove deletes the stored file.
	Remove(ctx context.Context, id string) error
}
