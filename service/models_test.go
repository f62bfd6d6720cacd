package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocatalog/core"
	"autocatalog/storage"
)

func modelInputFor(brandID int64, name, generation string) ModelInput {
	return ModelInput{
		Name:               name,
		Generation:         generation,
		StartManufacturing: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		EndManufacturing:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		BrandID:            brandID,
	}
}

func TestModelService_CreateResolvesBrand(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	brand, err := f.brands.Create(ctx, "Audi")
	require.NoError(t, err)

	model, err := f.models.Create(ctx, modelInputFor(brand.ID, "A4", "B9"))
	require.NoError(t, err)
	assert.Greater(t, model.ID, int64(0))
	require.NotNil(t, model.Brand)
	assert.Equal(t, "Audi", model.Brand.Name)
}

func TestModelService_CreateUnknownBrand(t *testing.T) {
	f := setupServices(t)

	_, err := f.models.Create(context.Background(), modelInputFor(9999, "A4", "B9"))
	assert.ErrorIs(t, err, storage.ErrBrandNotFound)
}

func TestModelService_UpdateSwitchesBrand(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	audi, err := f.brands.Create(ctx, "Audi")
	require.NoError(t, err)
	toyota, err := f.brands.Create(ctx, "Toyota")
	require.NoError(t, err)

	model, err := f.models.Create(ctx, modelInputFor(audi.ID, "A4", "B9"))
	require.NoError(t, err)

	updated, err := f.models.Update(ctx, model.ID, modelInputFor(toyota.ID, "Camry", "XV70"))
	require.NoError(t, err)
	assert.Equal(t, "Camry", updated.Name)
	assert.Equal(t, toyota.ID, updated.Brand.ID)
}

func TestModelService_UpdateUnknownBrand(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	audi, err := f.brands.Create(ctx, "Audi")
	require.NoError(t, err)
	model, err := f.models.Create(ctx, modelInputFor(audi.ID, "A4", "B9"))
	require.NoError(t, err)

	_, err = f.models.Update(ctx, model.ID, modelInputFor(9999, "A4", "B9"))
	assert.ErrorIs(t, err, storage.ErrBrandNotFound)
}

func TestModelService_UpdateNotFound(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	audi, err := f.brands.Create(ctx, "Audi")
	require.NoError(t, err)

	_, err = f.models.Update(ctx, 9999, modelInputFor(audi.ID, "A4", "B9"))
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
}

func TestModelService_FindAllFilters(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	audi, err := f.brands.Create(ctx, "Audi")
	require.NoError(t, err)
	toyota, err := f.brands.Create(ctx, "Toyota")
	require.NoError(t, err)

	_, err = f.models.Create(ctx, modelInputFor(audi.ID, "A4", "B9"))
	require.NoError(t, err)
	_, err = f.models.Create(ctx, modelInputFor(toyota.ID, "Corolla", "E210"))
	require.NoError(t, err)

	req := core.PageRequest{Page: 0, Size: 10, SortBy: "id", Direction: core.SortAsc}
	page, err := f.models.FindAll(ctx, req, core.ModelFilters{Brand: "toyota"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Corolla", page.Items[0].Name)
}

func TestModelService_DeleteNotFound(t *testing.T) {
	f := setupServices(t)
	err := f.models.Delete(context.Background(), 9999)
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
}

func TestBrandService_CreateAndRename(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	brand, err := f.brands.Create(ctx, "Audi")
	require.NoError(t, err)

	renamed, err := f.brands.Update(ctx, brand.ID, "Audi AG")
	require.NoError(t, err)
	assert.Equal(t, "Audi AG", renamed.Name)

	_, err = f.brands.Create(ctx, "Audi AG")
	assert.ErrorIs(t, err, storage.ErrDuplicateName)
}

func TestEngineService_Lifecycle(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	engine, err := f.engines.Create(ctx, "2.5 Dynamic Force", 2.5, core.EnginePetrol)
	require.NoError(t, err)

	updated, err := f.engines.Update(ctx, engine.ID, "2.5 Hybrid", 2.5, core.EnginePetrol)
	require.NoError(t, err)
	assert.Equal(t, "2.5 Hybrid", updated.Name)

	require.NoError(t, f.engines.Delete(ctx, engine.ID))
	_, err = f.engines.FindByID(ctx, engine.ID)
	assert.ErrorIs(t, err, storage.ErrEngineNotFound)
}
