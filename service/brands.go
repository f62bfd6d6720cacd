package service

import (
	"context"

	"go.uber.org/zap"

	"autocatalog/core"
	"autocatalog/metrics"
)

// BrandStorer interface for brand storage
type BrandStorer interface {
	GetBrand(ctx context.Context, id int64) (*core.Brand, error)
	ListBrands(ctx context.Context, req core.PageRequest) (*core.Page[core.Brand], error)
	CreateBrand(ctx context.Context, brand *core.Brand) error
	UpdateBrand(ctx context.Context, brand *core.Brand) error
	DeleteBrand(ctx context.Context, id int64) error
}

// BrandService handles brand catalog operations.
type BrandService struct {
	store  BrandStorer
	logger *zap.SugaredLogger
}

// NewBrandService creates a new brand service.
func NewBrandService(store BrandStorer, logger *zap.SugaredLogger) *BrandService {
	return &BrandService{store: store, logger: logger}
}

// FindByID retrieves a brand by its id.
func (bs *BrandService) FindByID(ctx context.Context, id int64) (*core.Brand, error) {
	return bs.store.GetBrand(ctx, id)
}

// FindAll retrieves one page of brands.
func (bs *BrandService) FindAll(ctx context.Context, req core.PageRequest) (*core.Page[core.Brand], error) {
	return bs.store.ListBrands(ctx, req)
}

// Create registers a new brand and returns it with its assigned id.
func (bs *BrandService) Create(ctx context.Context, name string) (*core.Brand, error) {
	brand := &core.Brand{Name: name}
	if err := bs.store.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("brand", "create").Inc()
	return brand, nil
}

// Update overwrites the name of an existing brand.
func (bs *BrandService) Update(ctx context.Context, id int64, name string) (*core.Brand, error) {
	brand := &core.Brand{ID: id, Name: name}
	if err := bs.store.UpdateBrand(ctx, brand); err != nil {
		return nil, err
	}
	metrics.CatalogWrites.WithLabelValues("brand", "update").Inc()
	return brand, nil
}

// Delete removes a brand. Brands referenced by models cannot be
// deleted.
func (bs *BrandService) Delete(ctx context.Context, id int64) error {
	if err := bs.store.DeleteBrand(ctx, id); err != nil {
		return err
	}
	metrics.CatalogWrites.WithLabelValues("brand", "delete").Inc()
	return nil
}
