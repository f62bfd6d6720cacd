package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"autocatalog/config"
	"autocatalog/service"
	"autocatalog/storage"
)

// StorageComponents bundles the SQLite handle with the per-entity
// storages built on it.
type StorageComponents struct {
	SQLite          *storage.SQLite
	BrandStorage    *storage.SQLiteBrandStorage
	CategoryStorage *storage.SQLiteCategoryStorage
	EngineStorage   *storage.SQLiteEngineStorage
	ModelStorage    *storage.SQLiteModelStorage
	CarStorage      *storage.SQLiteCarStorage
}

// Services bundles the catalog services consumed by the API.
type Services struct {
	Brands     *service.BrandService
	Categories *service.CategoryService
	Engines    *service.EngineService
	Models     *service.ModelService
	Cars       *service.CarService
}

// InitSQLite initializes the SQLite connection, creating the data
// directory when needed.
func InitSQLite(cfg *config.Config, sugar *zap.SugaredLogger) (*storage.SQLite, error) {
	if dir := filepath.Dir(cfg.DataPaths.SQLitePath); dir != "" && dir != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	sqlite, err := storage.NewSQLite(cfg.DataPaths.SQLitePath, sugar)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}

	sugar.Info("SQLite initialized successfully")
	return sqlite, nil
}

// InitStorages builds the per-entity storages on one SQLite handle.
func InitStorages(sqlite *storage.SQLite, sugar *zap.SugaredLogger) *StorageComponents {
	return &StorageComponents{
		SQLite:          sqlite,
		BrandStorage:    storage.NewSQLiteBrandStorage(sqlite, sugar),
		CategoryStorage: storage.NewSQLiteCategoryStorage(sqlite, sugar),
		EngineStorage:   storage.NewSQLiteEngineStorage(sqlite, sugar),
		ModelStorage:    storage.NewSQLiteModelStorage(sqlite, sugar),
		CarStorage:      storage.NewSQLiteCarStorage(sqlite, sugar),
	}
}

// InitServices builds the catalog services over the storages.
func InitServices(storages *StorageComponents, sugar *zap.SugaredLogger) *Services {
	return &Services{
		Brands:     service.NewBrandService(storages.BrandStorage, sugar),
		Categories: service.NewCategoryService(storages.CategoryStorage, sugar),
		Engines:    service.NewEngineService(storages.EngineStorage, sugar),
		Models:     service.NewModelService(storages.ModelStorage, storages.BrandStorage, sugar),
		Cars:       service.NewCarService(storages.CarStorage, storages.ModelStorage, storages.EngineStorage, storages.CategoryStorage, sugar),
	}
}
