package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"autocatalog/core"
)

var modelSortFields = map[string]string{
	"id":                 "m.id",
	"name":               "m.name",
	"generation":         "m.generation",
	"startManufacturing": "m.start_manufacturing",
	"endManufacturing":   "m.end_manufacturing",
	"brandName":          "b.name",
}

const modelSelect = `
	SELECT m.id, m.name, m.generation, m.start_manufacturing, m.end_manufacturing,
	       b.id, b.name
	FROM models m
	JOIN brands b ON b.id = m.brand_id
`

// SQLiteModelStorage handles model persistence in SQLite.
type SQLiteModelStorage struct {
	db     *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteModelStorage creates a new SQLite model storage handler.
func NewSQLiteModelStorage(db *SQLite, logger *zap.SugaredLogger) *SQLiteModelStorage {
	return &SQLiteModelStorage{db: db, logger: logger}
}

// UpdatePolicy reports the concurrency-control policy applied to model
// updates. The update path re-resolves the brand reference between its
// read and its write, so it holds the write transaction for the whole
// span instead of relying on a version counter.
func (sms *SQLiteModelStorage) UpdatePolicy() LockPolicy {
	return LockPessimistic
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanModel(row rowScanner) (*core.Model, error) {
	var (
		model      core.Model
		brand      core.Brand
		start, end string
	)
	if err := row.Scan(&model.ID, &model.Name, &model.Generation, &start, &end, &brand.ID, &brand.Name); err != nil {
		return nil, err
	}
	var err error
	if model.StartManufacturing, err = parseTime(start); err != nil {
		return nil, err
	}
	if model.EndManufacturing, err = parseTime(end); err != nil {
		return nil, err
	}
	model.Brand = &brand
	return &model, nil
}

// GetModel retrieves a single model with its brand by id.
func (sms *SQLiteModelStorage) GetModel(ctx context.Context, id int64) (*core.Model, error) {
	row := sms.db.ReadDB.QueryRowContext(ctx, modelSelect+" WHERE m.id = ?", id)
	model, err := scanModel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return model, nil
}

// ModelExists reports whether a model with the given id exists.
func (sms *SQLiteModelStorage) ModelExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := sms.db.ReadDB.QueryRowContext(ctx, "SELECT 1 FROM models WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check model existence: %w", err)
	}
	return true, nil
}

// ListModels retrieves one page of models matching the conjunction of
// the given filters.
func (sms *SQLiteModelStorage) ListModels(ctx context.Context, req core.PageRequest, filters core.ModelFilters) (*core.Page[core.Model], error) {
	order, err := orderClause(modelSortFields, req)
	if err != nil {
		return nil, err
	}

	predicate := core.And(
		core.NameEquals("m.name", filters.Name),
		core.NameEquals("m.generation", filters.Generation),
		core.NameEquals("b.name", filters.Brand),
	)
	where := " WHERE " + predicate.Expr

	var total int64
	countQuery := "SELECT COUNT(*) FROM models m JOIN brands b ON b.id = m.brand_id" + where
	if err := sms.db.ReadDB.QueryRowContext(ctx, countQuery, predicate.Args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count models: %w", err)
	}

	args := append(append([]interface{}{}, predicate.Args...), req.Size, req.Offset())
	rows, err := sms.db.ReadDB.QueryContext(ctx, modelSelect+where+order+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var models []core.Model
	for rows.Next() {
		model, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model row: %w", err)
		}
		models = append(models, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate model rows: %w", err)
	}

	return core.NewPage(models, req, total), nil
}

// CreateModel inserts a model and assigns its server-generated id. The
// brand reference must already be resolved by the caller.
func (sms *SQLiteModelStorage) CreateModel(ctx context.Context, model *core.Model) error {
	res, err := sms.db.WriteDB.ExecContext(ctx,
		`INSERT INTO models (name, generation, start_manufacturing, end_manufacturing, brand_id)
		 VALUES (?, ?, ?, ?, ?)`,
		model.Name, model.Generation,
		formatTime(model.StartManufacturing), formatTime(model.EndManufacturing),
		model.Brand.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read model id: %w", err)
	}
	model.ID = id
	sms.logger.Infof("Created model %q %s (id=%d)", model.Name, model.Generation, model.ID)
	return nil
}

// UpdateModel overwrites a model row under the pessimistic policy: the
// current row is read, the brand reference re-resolved only when the
// incoming id differs, and the row rewritten, all inside one write-pool
// transaction so a concurrent update is serialized rather than racing.
func (sms *SQLiteModelStorage) UpdateModel(ctx context.Context, id int64, name, generation string, start, end time.Time, brandID int64) (*core.Model, error) {
	var updated *core.Model
	err := sms.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM models WHERE id = ?", id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read model for update: %w", err)
		}

		// Resolve the brand reference under the held transaction; this
		// read-then-write window is why model updates are pessimistic.
		var brand core.Brand
		err = tx.QueryRowContext(ctx, "SELECT id, name FROM brands WHERE id = ?", brandID).Scan(&brand.ID, &brand.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBrandNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to resolve brand reference: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE models
			 SET name = ?, generation = ?, start_manufacturing = ?, end_manufacturing = ?, brand_id = ?
			 WHERE id = ?`,
			name, generation, formatTime(start), formatTime(end), brand.ID, id,
		); err != nil {
			return mapConstraintError(err)
		}

		updated = &core.Model{
			ID:                 id,
			Name:               name,
			Generation:         generation,
			StartManufacturing: start.UTC(),
			EndManufacturing:   end.UTC(),
			Brand:              &brand,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sms.logger.Infof("Updated model id=%d", id)
	return updated, nil
}

// DeleteModel physically removes a model row. Dependent cars are not
// checked; a foreign key violation surfaces as ErrConstraintViolation.
func (sms *SQLiteModelStorage) DeleteModel(ctx context.Context, id int64) error {
	res, err := sms.db.WriteDB.ExecContext(ctx, "DELETE FROM models WHERE id = ?", id)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrModelNotFound
	}
	sms.logger.Infof("Deleted model id=%d", id)
	return nil
}
