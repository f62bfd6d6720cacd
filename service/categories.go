package service

import (
	"context"

	"go.uber.org/zap"

	"autocatalog/core"
	"autocatalog/metrics"
)

// CategoryStorer interface for category storage
type CategoryStorer interface {
	GetCategory(ctx context.Context, id int64) (*core.Category, error)
	ListCategories(ctx context.Context, req core.PageRequest) (*core.Page[core.Category], error)
	CreateCategory(ctx context.Context, category *core.Category) error
	UpdateCategory(ctx context.Context, category *core.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryService handles category catalog operations.
type CategoryService struct {
	store  CategoryStorer
	logger *zap.SugaredLogger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store CategoryStorer, logger *zap.SugaredLogger) *CategoryService {
	return &CategoryService{store: store, logger: logger}
}

// FindByID retrieves a category by its id.
func (cs *CategoryService) FindByID(ctx context.Context, id int64) (*core.Category, error) {
	return cs.store.GetCategory(ctx, id)
}

// FindAll retrieves one page of categories.
func (cs *CategoryService) FindAll(ctx context.Context, req core.PageRequest) (*core.Page[core.Category], error) {
	return cs.store.ListCategories(ctx, req)
}

// Create registers a new category and returns it with its assigned id.
func (cs *CategoryService) Create(ctx context.Context, name string) (*core.Category, error) {
	category := &core.Category{Name: name}
	if err := cs.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("category", "create").Inc()
	return category, nil
}

// Update overwrites the name of an existing category.
func (cs *CategoryService) Update(ctx context.Context, id int64, name string) (*core.Category, error) {
	category := &core.Category{ID: id, Name: name}
	if err := cs.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("category", "update").Inc()
	return category, nil
}

// Delete removes a category. Categories referenced by cars cannot be
// deleted.
func (cs *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := cs.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	metrics.CatalogWrites.WithLabelValues("category", "delete").Inc()
	return nil
}
