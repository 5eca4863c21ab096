// Package planet assembles the planet record service: query and mutation
// services over one record store, exposed through the HTTP handler.
package planet

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"planets/internal/planet/handler"
	"planets/internal/planet/service"
)

// Store is a record store that can also report its own health.
type Store interface {
	service.Store
	Ping(ctx context.Context) error
}

// Module is the wired planet service.
type Module struct {
	Store     Store
	Queries   *service.QueryService
	Mutations *service.MutationService
	Handler   *handler.Handler
}

// New builds both services over store with the shared options and the HTTP
// handler on top of them.
func New(store Store, logger *slog.Logger, opts ...service.Option) (*Module, error) {
	opts = append([]service.Option{service.WithLogger(logger)}, opts...)

	queries, err := service.NewQueryService(store, opts...)
	if err != nil {
		return nil, err
	}
	mutations, err := service.NewMutationService(store, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		Store:     store,
		Queries:   queries,
		Mutations: mutations,
		Handler:   handler.New(queries, mutations, logger),
	}, nil
}

// Register mounts the planet routes.
func (m *Module) Register(r chi.Router) {
	m.Handler.Register(r)
}
