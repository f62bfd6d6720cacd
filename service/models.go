package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autocatalog/core"
	"autocatalog/metrics"
	"autocatalog/storage"
)

// ModelStorer interface for model storage
type ModelStorer interface {
	GetModel(ctx context.Context, id int64) (*core.Model, error)
	ListModels(ctx context.Context, req core.PageRequest, filters core.ModelFilters) (*core.Page[core.Model], error)
	CreateModel(ctx context.Context, model *core.Model) error
	UpdateModel(ctx context.Context, id int64, name, generation string, start, end time.Time, brandID int64) (*core.Model, error)
	DeleteModel(ctx context.Context, id int64) error
	UpdatePolicy() storage.LockPolicy
}

// BrandReader resolves brand references.
type BrandReader interface {
	GetBrand(ctx context.Context, id int64) (*core.Brand, error)
}

// ModelInput carries the writable fields of a model.
type ModelInput struct {
	Name               string
	Generation         string
	StartManufacturing time.Time
	EndManufacturing   time.Time
	BrandID            int64
}

// ModelService handles model catalog operations.
type ModelService struct {
	store  ModelStorer
	brands BrandReader
	logger *zap.SugaredLogger
}

// NewModelService creates a new model service.
func NewModelService(store ModelStorer, brands BrandReader, logger *zap.SugaredLogger) *ModelService {
	logger.Infof("Model updates use %s locking", store.UpdatePolicy())
	return &ModelService{store: store, brands: brands, logger: logger}
}

// FindByID retrieves a model with its brand by id.
func (ms *ModelService) FindByID(ctx context.Context, id int64) (*core.Model, error) {
	return ms.store.GetModel(ctx, id)
}

// FindAll retrieves one page of models matching the given filters.
func (ms *ModelService) FindAll(ctx context.Context, req core.PageRequest, filters core.ModelFilters) (*core.Page[core.Model], error) {
	return ms.store.ListModels(ctx, req, filters)
}

// Create registers a new model. The brand reference is resolved before
// the insert so a dangling id surfaces as a not-found error rather
// than a constraint violation.
func (ms *ModelService) Create(ctx context.Context, input ModelInput) (*core.Model, error) {
	brand, err := ms.brands.GetBrand(ctx, input.BrandID)
	if err != nil {
		return nil, err
	}
	model := &core.Model{
		Name:               input.Name,
		Generation:         input.Generation,
		StartManufacturing: input.StartManufacturing,
		EndManufacturing:   input.EndManufacturing,
		Brand:              brand,
	}
	if err := ms.store.CreateModel(ctx, model); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("model", "create").Inc()
	return model, nil
}

// Update overwrites an existing model. The storage layer performs the
// whole read-then-write under its pessimistic policy, including brand
// resolution.
func (ms *ModelService) Update(ctx context.Context, id int64, input ModelInput) (*core.Model, error) {
	model, err := ms.store.UpdateModel(ctx, id, input.Name, input.Generation,
		input.StartManufacturing, input.EndManufacturing, input.BrandID)
	if err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("model", "update").Inc()
	return model, nil
}

// Delete removes a model. Models referenced by cars cannot be deleted.
func (ms *ModelService) Delete(ctx context.Context, id int64) error {
	if err := ms.store.DeleteModel(ctx, id); err != nil {
		return err
	}
	metrics.CatalogWrites.WithLabelValues("model", "delete").Inc()
	return nil
}
