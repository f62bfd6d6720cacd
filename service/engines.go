package service

import (
	"context"

	"go.uber.org/zap"

	"autocatalog/core"
	"autocatalog/metrics"
)

// EngineStorer interface for engine storage
type EngineStorer interface {
	GetEngine(ctx context.Context, id int64) (*core.Engine, error)
	ListEngines(ctx context.Context, req core.PageRequest) (*core.Page[core.Engine], error)
	CreateEngine(ctx context.Context, engine *core.Engine) error
	UpdateEngine(ctx context.Context, engine *core.Engine) error
	DeleteEngine(ctx context.Context, id int64) error
}

// EngineService handles engine catalog operations.
type EngineService struct {
	store  EngineStorer
	logger *zap.SugaredLogger
}

// NewEngineService creates a new engine service.
func NewEngineService(store EngineStorer, logger *zap.SugaredLogger) *EngineService {
	return &EngineService{store: store, logger: logger}
}

// FindByID retrieves an engine by its id.
func (es *EngineService) FindByID(ctx context.Context, id int64) (*core.Engine, error) {
	return es.store.GetEngine(ctx, id)
}

// FindAll retrieves one page of engines.
func (es *EngineService) FindAll(ctx context.Context, req core.PageRequest) (*core.Page[core.Engine], error) {
	return es.store.ListEngines(ctx, req)
}

// Create registers a new engine and returns it with its assigned id.
func (es *EngineService) Create(ctx context.Context, name string, capacity float64, engineType core.EngineType) (*core.Engine, error) {
	engine := &core.Engine{Name: name, Capacity: capacity, Type: engineType}
	if err := es.store.CreateEngine(ctx, engine); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("engine", "create").Inc()
	return engine, nil
}

// Update overwrites an existing engine.
func (es *EngineService) Update(ctx context.Context, id int64, name string, capacity float64, engineType core.EngineType) (*core.Engine, error) {
	engine := &core.Engine{ID: id, Name: name, Capacity: capacity, Type: engineType}
	if err := es.store.UpdateEngine(ctx, engine); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("engine", "update").Inc()
	return engine, nil
}

// Delete removes an engine. Engines referenced by cars cannot be
// deleted.
func (es *EngineService) Delete(ctx context.Context, id int64) error {
	if err := es.store.DeleteEngine(ctx, id); err != nil {
		return err
	}
	metrics.CatalogWrites.WithLabelValues("engine", "delete").Inc()
	return nil
}
