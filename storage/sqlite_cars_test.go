package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autocatalog/core"
)

type carFixture struct {
	sqlite     *SQLite
	brands     *SQLiteBrandStorage
	categories *SQLiteCategoryStorage
	engines    *SQLiteEngineStorage
	models     *SQLiteModelStorage
	cars       *SQLiteCarStorage

	audi   *core.Brand
	sedan  *core.Category
	petrol *core.Engine
	a4     *core.Model
}

func setupCarFixture(t *testing.T) *carFixture {
	t.Helper()
	sqlite := setupTestSQLite(t)
	logger := zap.NewNop().Sugar()
	f := &carFixture{
		sqlite:     sqlite,
		brands:     NewSQLiteBrandStorage(sqlite, logger),
		categories: NewSQLiteCategoryStorage(sqlite, logger),
		engines:    NewSQLiteEngineStorage(sqlite, logger),
		models:     NewSQLiteModelStorage(sqlite, logger),
		cars:       NewSQLiteCarStorage(sqlite, logger),
	}

	ctx := context.Background()
	f.audi = &core.Brand{Name: "Audi"}
	require.NoError(t, f.brands.CreateBrand(ctx, f.audi))
	f.sedan = &core.Category{Name: "Sedan"}
	require.NoError(t, f.categories.CreateCategory(ctx, f.sedan))
	f.petrol = &core.Engine{Name: "2.0 TFSI", Capacity: 2.0, Type: core.EnginePetrol}
	require.NoError(t, f.engines.CreateEngine(ctx, f.petrol))
	f.a4 = &core.Model{
		Name:               "A4",
		Generation:         "B9",
		StartManufacturing: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		EndManufacturing:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		Brand:              f.audi,
	}
	require.NoError(t, f.models.CreateModel(ctx, f.a4))
	return f
}

func (f *carFixture) newCar(serial, color string, manufactured time.Time) *core.Car {
	return &core.Car{
		Color:             color,
		SerialNumber:      serial,
		ManufacturingDate: manufactured,
		Drive:             core.DriveFront,
		Model:             f.a4,
		Engine:            f.petrol,
		Category:          f.sedan,
	}
}

func TestCarStorage_UpdatePolicy(t *testing.T) {
	f := setupCarFixture(t)
	assert.Equal(t, LockOptimistic, f.cars.UpdatePolicy())
}

func TestCarStorage_CreateAndGet(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	manufactured := time.Date(2019, 6, 15, 10, 30, 0, 0, time.UTC)
	car := f.newCar("WAUZZZF40LA000001", "black", manufactured)
	require.NoError(t, f.cars.CreateCar(ctx, car))
	assert.Greater(t, car.ID, int64(0))
	assert.Equal(t, int64(1), car.Version)

	got, err := f.cars.GetCar(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "black", got.Color)
	assert.Equal(t, "WAUZZZF40LA000001", got.SerialNumber)
	assert.True(t, manufactured.Equal(got.ManufacturingDate))
	assert.Equal(t, core.DriveFront, got.Drive)
	assert.Equal(t, int64(1), got.Version)

	require.NotNil(t, got.Model)
	assert.Equal(t, "A4", got.Model.Name)
	require.NotNil(t, got.Model.Brand)
	assert.Equal(t, "Audi", got.Model.Brand.Name)
	require.NotNil(t, got.Engine)
	assert.Equal(t, core.EnginePetrol, got.Engine.Type)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Sedan", got.Category.Name)
}

func TestCarStorage_GetNotFound(t *testing.T) {
	f := setupCarFixture(t)
	_, err := f.cars.GetCar(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestCarStorage_DuplicateSerialNumber(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	manufactured := time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.cars.CreateCar(ctx, f.newCar("WAUZZZF40LA000001", "black", manufactured)))

	err := f.cars.CreateCar(ctx, f.newCar("WAUZZZF40LA000001", "white", manufactured))
	assert.ErrorIs(t, err, ErrDuplicateSerialNumber)
}

func TestCarStorage_ListFilters(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cars.CreateCar(ctx,
		f.newCar("SER-2016", "black", time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, f.cars.CreateCar(ctx,
		f.newCar("SER-2019", "white", time.Date(2019, 8, 20, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, f.cars.CreateCar(ctx,
		f.newCar("SER-2022", "red", time.Date(2022, 11, 5, 0, 0, 0, 0, time.UTC))))

	req := core.PageRequest{Page: 0, Size: 10, SortBy: "id", Direction: core.SortAsc}

	page, err := f.cars.ListCars(ctx, req, core.CarFilters{Model: "a4"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)

	page, err = f.cars.ListCars(ctx, req, core.CarFilters{Category: "SEDAN"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)

	page, err = f.cars.ListCars(ctx, req, core.CarFilters{Model: "corolla"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalElements)

	page, err = f.cars.ListCars(ctx, req, core.CarFilters{YearFrom: "2017", YearTill: "2020"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "SER-2019", page.Items[0].SerialNumber)

	// A lone lower bound starts at January 1st of that year, so the
	// March 2016 car is included.
	page, err = f.cars.ListCars(ctx, req, core.CarFilters{YearFrom: "2016"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)

	page, err = f.cars.ListCars(ctx, req, core.CarFilters{YearTill: "2016"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "SER-2016", page.Items[0].SerialNumber)

	_, err = f.cars.ListCars(ctx, req, core.CarFilters{YearFrom: "not-a-year"})
	assert.ErrorIs(t, err, core.ErrInvalidYear)
}

func TestCarStorage_ListSortByColorDesc(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	manufactured := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.cars.CreateCar(ctx, f.newCar("SER-A", "black", manufactured)))
	require.NoError(t, f.cars.CreateCar(ctx, f.newCar("SER-B", "white", manufactured)))

	page, err := f.cars.ListCars(ctx,
		core.PageRequest{Page: 0, Size: 10, SortBy: "color", Direction: core.SortDesc},
		core.CarFilters{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "white", page.Items[0].Color)
	assert.Equal(t, "black", page.Items[1].Color)
}

func TestCarStorage_ListInvalidSortField(t *testing.T) {
	f := setupCarFixture(t)
	_, err := f.cars.ListCars(context.Background(),
		core.PageRequest{Page: 0, Size: 10, SortBy: "serial_number; DROP TABLE cars", Direction: core.SortAsc},
		core.CarFilters{})
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestCarStorage_UpdateIncrementsVersion(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	car := f.newCar("WAUZZZF40LA000001", "black", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.cars.CreateCar(ctx, car))

	car.Color = "midnight blue"
	require.NoError(t, f.cars.UpdateCar(ctx, car, 1))
	assert.Equal(t, int64(2), car.Version)

	got, err := f.cars.GetCar(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "midnight blue", got.Color)
	assert.Equal(t, int64(2), got.Version)
}

func TestCarStorage_UpdateStaleVersion(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	car := f.newCar("WAUZZZF40LA000001", "black", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.cars.CreateCar(ctx, car))
	require.NoError(t, f.cars.UpdateCar(ctx, car, 1))

	// A second writer still holding version 1 must be rejected.
	stale := f.newCar("WAUZZZF40LA000001", "green", car.ManufacturingDate)
	stale.ID = car.ID
	err := f.cars.UpdateCar(ctx, stale, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := f.cars.GetCar(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "black", got.Color)
}

func TestCarStorage_ConcurrentUpdatesOneWins(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	car := f.newCar("WAUZZZF40LA000001", "black", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.cars.CreateCar(ctx, car))

	// Two writers racing from version 1: exactly one commits, the
	// other sees a conflict instead of overwriting the winner.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, color := range []string{"white", "red"} {
		wg.Add(1)
		go func(color string) {
			defer wg.Done()
			attempt := f.newCar("WAUZZZF40LA000001", color, car.ManufacturingDate)
			attempt.ID = car.ID
			errs <- f.cars.UpdateCar(ctx, attempt, 1)
		}(color)
	}
	wg.Wait()
	close(errs)

	var conflicts, commits int
	for err := range errs {
		switch {
		case err == nil:
			commits++
		case errors.Is(err, ErrVersionConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, commits)
	assert.Equal(t, 1, conflicts)

	got, err := f.cars.GetCar(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Contains(t, []string{"white", "red"}, got.Color)
}

func TestCarStorage_UpdateNotFound(t *testing.T) {
	f := setupCarFixture(t)

	car := f.newCar("WAUZZZF40LA000001", "black", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC))
	car.ID = 9999
	err := f.cars.UpdateCar(context.Background(), car, 1)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestCarStorage_Delete(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	car := f.newCar("WAUZZZF40LA000001", "black", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.cars.CreateCar(ctx, car))

	require.NoError(t, f.cars.DeleteCar(ctx, car.ID))
	_, err := f.cars.GetCar(ctx, car.ID)
	assert.ErrorIs(t, err, ErrCarNotFound)

	assert.ErrorIs(t, f.cars.DeleteCar(ctx, car.ID), ErrCarNotFound)
}

func TestModelStorage_DeleteReferencedByCar(t *testing.T) {
	f := setupCarFixture(t)
	ctx := context.Background()

	car := f.newCar("WAUZZZF40LA000001", "black", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.cars.CreateCar(ctx, car))

	err := f.models.DeleteModel(ctx, f.a4.ID)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}
