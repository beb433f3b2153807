package recipe

import (
	"context"
	"errors"
	"io"
)

type StubService struct {
	CreateFunc    func(ctx context.Context, details CreateRequest, upload *UploadInput) (*Created, error)
	ListFunc      func(ctx context.Context) ([]Recipe, error)
	UpdateFunc    func(ctx context.Context, id string, params UpdateRequest) (*Recipe, error)
	DeleteFunc    func(ctx context.Context, id string) error
	OpenImageFunc func(ctx context.Context, id string) (io.ReadCloser, error)
}

var _ Service = &StubService{}

func (s *StubService) Create(ctx context.Context, details CreateRequest, upload *UploadInput) (*Created, error) {
	if s.CreateFunc == nil {
		return nil, errors.New("Create() not implemented by stub")
	}
	return s.CreateFunc(ctx, details, upload)
}

func (s *StubService) List(ctx context.Context) ([]Recipe, error) {
	if s.ListFunc == nil {
		return nil, errors.New("List() not implemented by stub")
	}
	return s.ListFunc(ctx)
}

func (s *StubService) Update(ctx context.Context, id string, params UpdateRequest) (*Recipe, error) {
	if s.UpdateFunc == nil {
		return nil, errors.New("Update() not implemented by stub")
	}
	return s.UpdateFunc(ctx, id, params)
}

func (s *StubService) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc == nil {
		return errors.New("Delete() not implemented by stub")
	}
	return s.DeleteFunc(ctx, id)
}

func (s *StubService) OpenImage(ctx context.Context, id string) (io.ReadCloser, error) {
	if s.OpenImageFunc == nil {
		return nil, errors.New("OpenImage() not implemented by stub")
	}
	return s.OpenImageFunc(ctx, id)
}
