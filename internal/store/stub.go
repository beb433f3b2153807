package store

import (
	"context"
	"errors"
	"io"
)

type StubRecordStore struct {
	CreateFunc func(ctx context.Context, collection string, fields Fields) (*Record, error)
	ListFunc   func(ctx context.Context, collection string, opts ListOptions) ([]Record, error)
	UpdateFunc func(ctx context.Context, collection, id string, fields Fields) (*Record, error)
	DeleteFunc func(ctx context.Context, collection, id string) error
}

var _ RecordStore = &StubRecordStore{}

func (s *StubRecordStore) Create(ctx context.Context, collection string, fields Fields) (*Record, error) {
	if s.CreateFunc == nil {
		return nil, errors.New("Create() not implemented by stub")
	}
	return s.CreateFunc(ctx, collection, fields)
}

func (s *StubRecordStore) List(ctx context.Context, collection string, opts ListOptions) ([]Record, error) {
	if s.ListFunc == nil {
		return nil, errors.New("List() not implemented by stub")
	}
	return s.ListFunc(ctx, collection, opts)
}

func (s *StubRecordStore) Update(ctx context.Context, collection, id string, fields Fields) (*Record, error) {
	if s.UpdateFunc == nil {
		return nil, errors.New("Update() not implemented by stub")
	}
	return s.UpdateFunc(ctx, collection, id, fields)
}

func (s *StubRecordStore) Delete(ctx context.Context, collection, id string) error {
	if s.DeleteFunc == nil {
		return errors.New("Delete() not implemented by stub")
	}
	return s.DeleteFunc(ctx, collection, id)
}

type StubFileStore struct {
	StoreFunc  func(ctx context.Context, name string, src io.Reader, read, write []string) (string, error)
	OpenFunc   func(ctx context.Context, id string) (io.ReadCloser, error)
	RemoveFunc func(ctx context.Context, id string) error
}

var _ FileStore = &StubFileStore{}

func (s *StubFileStore) Store(ctx context.Context, name string, src io.Reader, read, write []string) (string, error) {
	if s.StoreFunc == nil {
		return "", errors.New("Store() not implemented by stub")
	}
	return s.StoreFunc(ctx, name, src, read, write)
}

func (s *StubFileStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if s.OpenFunc == nil {
		return nil, errors.New("Open() not implemented by stub")
	}
	return s.OpenFunc(ctx, id)
}

func (s *StubFileStore) Remove(ctx context.Context, id string) error {
	if s.RemoveFunc == nil {
		return errors.New("Remove() not implemented by stub")
	}
	return s.RemoveFunc(ctx, id)
}
