package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autocatalog/core"
	"autocatalog/metrics"
	"autocatalog/storage"
)

// CarStorer interface for car storage
type CarStorer interface {
	GetCar(ctx context.Context, id int64) (*core.Car, error)
	ListCars(ctx context.Context, req core.PageRequest, filters core.CarFilters) (*core.Page[core.Car], error)
	CreateCar(ctx context.Context, car *core.Car) error
	UpdateCar(ctx context.Context, car *core.Car, expectedVersion int64) error
	DeleteCar(ctx context.Context, id int64) error
	UpdatePolicy() storage.LockPolicy
}

// ModelReader resolves model references.
type ModelReader interface {
	GetModel(ctx context.Context, id int64) (*core.Model, error)
}

// EngineReader resolves engine references.
type EngineReader interface {
	GetEngine(ctx context.Context, id int64) (*core.Engine, error)
}

// CategoryReader resolves category references.
type CategoryReader interface {
	GetCategory(ctx context.Context, id int64) (*core.Category, error)
}

// CarInput carries the writable fields of a car.
type CarInput struct {
	Color             string
	SerialNumber      string
	ManufacturingDate time.Time
	Drive             core.DriveType
	ModelID           int64
	EngineID          int64
	CategoryID        int64
}

// CarService handles car catalog operations.
type CarService struct {
	store      CarStorer
	models     ModelReader
	engines    EngineReader
	categories CategoryReader
	logger     *zap.SugaredLogger
}

// NewCarService creates a new car service.
func NewCarService(store CarStorer, models ModelReader, engines EngineReader, categories CategoryReader, logger *zap.SugaredLogger) *CarService {
	logger.Infof("Car updates use %s locking", store.UpdatePolicy())
	return &CarService{
		store:      store,
		models:     models,
		engines:    engines,
		categories: categories,
		logger:     logger,
	}
}

// FindByID retrieves a car with its resolved references by id.
func (cs *CarService) FindByID(ctx context.Context, id int64) (*core.Car, error) {
	return cs.store.GetCar(ctx, id)
}

// FindAll retrieves one page of cars matching the given filters.
func (cs *CarService) FindAll(ctx context.Context, req core.PageRequest, filters core.CarFilters) (*core.Page[core.Car], error) {
	return cs.store.ListCars(ctx, req, filters)
}

// Create registers a new car at version 1. All three references are
// resolved before the insert so a dangling id surfaces as a not-found
// error rather than a constraint violation.
func (cs *CarService) Create(ctx context.Context, input CarInput) (*core.Car, error) {
	model, err := cs.models.GetModel(ctx, input.ModelID)
	if err != nil {
		return nil, err
	}
	engine, err := cs.engines.GetEngine(ctx, input.EngineID)
	if err != nil {
		return nil, err
	}
	category, err := cs.categories.GetCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	car := &core.Car{
		Color:             input.Color,
		SerialNumber:      input.SerialNumber,
		ManufacturingDate: input.ManufacturingDate,
		Drive:             input.Drive,
		Model:             model,
		Engine:            engine,
		Category:          category,
	}
	if err := cs.store.CreateCar(ctx, car); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("car", "create").Inc()
	return car, nil
}

// Update overwrites an existing car under the optimistic policy. The
// caller supplies the version it read; a stale one yields
// storage.ErrVersionConflict. References are re-resolved only when
// their ids changed.
func (cs *CarService) Update(ctx context.Context, id int64, input CarInput, expectedVersion int64) (*core.Car, error) {
	car, err := cs.store.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}

	if car.Model.ID != input.ModelID {
		model, err := cs.models.GetModel(ctx, input.ModelID)
		if err != nil {
			return nil, err
		}
		car.Model = model
	}
	if car.Engine.ID != input.EngineID {
		engine, err := cs.engines.GetEngine(ctx, input.EngineID)
		if err != nil {
			return nil, err
		}
		car.Engine = engine
	}
	if car.Category.ID != input.CategoryID {
		category, err := cs.categories.GetCategory(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		car.Category = category
	}

	car.Color = input.Color
	car.SerialNumber = input.SerialNumber
	car.ManufacturingDate = input.ManufacturingDate
	car.Drive = input.Drive

	if err := cs.store.UpdateCar(ctx, car, expectedVersion); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("car", "update").Inc()
	return car, nil
}

// Delete removes a car.
func (cs *CarService) Delete(ctx context.Context, id int64) error {
	if err := cs.store.DeleteCar(ctx, id); err != nil {
		return err
	}
	metrics.CatalogWrites.WithLabelValues("car", "delete").Inc()
	return nil
}
