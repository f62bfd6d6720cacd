package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autocatalog/core"
)

func setupEngineStorage(t *testing.T) *SQLiteEngineStorage {
	t.Helper()
	return NewSQLiteEngineStorage(setupTestSQLite(t), zap.NewNop().Sugar())
}

func TestEngineStorage_CreateAndGet(t *testing.T) {
	engines := setupEngineStorage(t)
	ctx := context.Background()

	engine := &core.Engine{Name: "2.0 TFSI", Capacity: 2.0, Type: core.EnginePetrol}
	require.NoError(t, engines.CreateEngine(ctx, engine))
	assert.Greater(t, engine.ID, int64(0))

	got, err := engines.GetEngine(ctx, engine.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.0 TFSI", got.Name)
	assert.Equal(t, 2.0, got.Capacity)
	assert.Equal(t, core.EnginePetrol, got.Type)
}

func TestEngineStorage_RejectsNonPositiveCapacity(t *testing.T) {
	engines := setupEngineStorage(t)

	engine := &core.Engine{Name: "Broken", Capacity: 0, Type: core.EngineDiesel}
	err := engines.CreateEngine(context.Background(), engine)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestEngineStorage_RejectsUnknownType(t *testing.T) {
	engines := setupEngineStorage(t)

	engine := &core.Engine{Name: "Steam", Capacity: 1.5, Type: core.EngineType("STEAM")}
	err := engines.CreateEngine(context.Background(), engine)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestEngineStorage_DuplicateName(t *testing.T) {
	engines := setupEngineStorage(t)
	ctx := context.Background()

	require.NoError(t, engines.CreateEngine(ctx, &core.Engine{Name: "V8", Capacity: 4.0, Type: core.EnginePetrol}))
	err := engines.CreateEngine(ctx, &core.Engine{Name: "V8", Capacity: 4.4, Type: core.EnginePetrol})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestEngineStorage_Update(t *testing.T) {
	engines := setupEngineStorage(t)
	ctx := context.Background()

	engine := &core.Engine{Name: "EV", Capacity: 0.1, Type: core.EnginePetrol}
	require.NoError(t, engines.CreateEngine(ctx, engine))

	engine.Name = "e-tron drive"
	engine.Capacity = 0.2
	engine.Type = core.EngineElectric
	require.NoError(t, engines.UpdateEngine(ctx, engine))

	got, err := engines.GetEngine(ctx, engine.ID)
	require.NoError(t, err)
	assert.Equal(t, "e-tron drive", got.Name)
	assert.Equal(t, core.EngineElectric, got.Type)
}

func TestEngineStorage_DeleteNotFound(t *testing.T) {
	engines := setupEngineStorage(t)
	err := engines.DeleteEngine(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrEngineNotFound)
}
