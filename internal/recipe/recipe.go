package recipe

import (
	"github.com/jpbalagtas/kusinakit/internal/config"
	"github.com/jpbalagtas/kusinakit/internal/store"
)

type Module struct {
	svc     *service
	handler *Handler
}

func (m *Module) Handler() *Handler {
	return m.handler
}

func (m *Module) Service() Service {
	return m.svc
}

func NewModule(records store.RecordStore, files store.FileStore, cfg *config.StoreOptions) *Module {
	svc := NewService(records, files, cfg)
	handler := NewHandler(svc)
	return &Module{
		svc:     svc,
		handler: handler,
	}
}
