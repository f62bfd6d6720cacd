package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autocatalog/core"
	"autocatalog/metrics"
)

var carSortFields = map[string]string{
	"id":                "c.id",
	"color":             "c.color",
	"serialNumber":      "c.serial_number",
	"manufacturingDate": "c.manufacturing_date",
	"modelName":         "m.name",
}

const carSelect = `
	SELECT c.id, c.color, c.serial_number, c.manufacturing_date, c.drive, c.version,
	       m.id, m.name, m.generation, m.start_manufacturing, m.end_manufacturing,
	       b.id, b.name,
	       e.id, e.name, e.capacity, e.type,
	       cat.id, cat.name
	FROM cars c
	JOIN models m ON m.id = c.model_id
	JOIN brands b ON b.id = m.brand_id
	JOIN engines e ON e.id = c.engine_id
	JOIN categories cat ON cat.id = c.category_id
`

// SQLiteCarStorage handles car persistence in SQLite.
type SQLiteCarStorage struct {
	db     *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteCarStorage creates a new SQLite car storage handler.
func NewSQLiteCarStorage(db *SQLite, logger *zap.SugaredLogger) *SQLiteCarStorage {
	return &SQLiteCarStorage{db: db, logger: logger}
}

// UpdatePolicy reports the concurrency-control policy applied to car
// updates: a version counter checked at commit time.
func (scs *SQLiteCarStorage) UpdatePolicy() LockPolicy {
	return LockOptimistic
}

func scanCar(row rowScanner) (*core.Car, error) {
	var (
		car                  core.Car
		model                core.Model
		brand                core.Brand
		engine               core.Engine
		category             core.Category
		manufactured         string
		modelStart, modelEnd string
	)
	if err := row.Scan(
		&car.ID, &car.Color, &car.SerialNumber, &manufactured, &car.Drive, &car.Version,
		&model.ID, &model.Name, &model.Generation, &modelStart, &modelEnd,
		&brand.ID, &brand.Name,
		&engine.ID, &engine.Name, &engine.Capacity, &engine.Type,
		&category.ID, &category.Name,
	); err != nil {
		return nil, err
	}
	var err error
	if car.ManufacturingDate, err = parseTime(manufactured); err != nil {
		return nil, err
	}
	if model.StartManufacturing, err = parseTime(modelStart); err != nil {
		return nil, err
	}
	if model.EndManufacturing, err = parseTime(modelEnd); err != nil {
		return nil, err
	}
	model.Brand = &brand
	car.Model = &model
	car.Engine = &engine
	car.Category = &category
	return &car, nil
}

// GetCar retrieves a single car with its resolved references by id.
func (scs *SQLiteCarStorage) GetCar(ctx context.Context, id int64) (*core.Car, error) {
	row := scs.db.ReadDB.QueryRowContext(ctx, carSelect+" WHERE c.id = ?", id)
	car, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return car, nil
}

// ListCars retrieves one page of cars matching the conjunction of the
// given filters.
func (scs *SQLiteCarStorage) ListCars(ctx context.Context, req core.PageRequest, filters core.CarFilters) (*core.Page[core.Car], error) {
	order, err := orderClause(carSortFields, req)
	if err != nil {
		return nil, err
	}

	yearRange, err := core.ManufacturingYearRange("c.manufacturing_date", filters.YearFrom, filters.YearTill)
	if err != nil {
		return nil, err
	}
	predicate := core.And(
		core.NameEquals("m.name", filters.Model),
		core.NameEquals("cat.name", filters.Category),
		yearRange,
	)
	where := " WHERE " + predicate.Expr

	countQuery := `
		SELECT COUNT(*)
		FROM cars c
		JOIN models m ON m.id = c.model_id
		JOIN categories cat ON cat.id = c.category_id` + where
	var total int64
	if err := scs.db.ReadDB.QueryRowContext(ctx, countQuery, predicate.Args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count cars: %w", err)
	}

	args := append(append([]interface{}{}, predicate.Args...), req.Size, req.Offset())
	rows, err := scs.db.ReadDB.QueryContext(ctx, carSelect+where+order+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var cars []core.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car row: %w", err)
		}
		cars = append(cars, *car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate car rows: %w", err)
	}

	return core.NewPage(cars, req, total), nil
}

// CreateCar inserts a car at version 1 and assigns its server-generated
// id. All references must already be resolved by the caller.
func (scs *SQLiteCarStorage) CreateCar(ctx context.Context, car *core.Car) error {
	res, err := scs.db.WriteDB.ExecContext(ctx,
		`INSERT INTO cars (color, serial_number, manufacturing_date, drive, model_id, engine_id, category_id, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		car.Color, car.SerialNumber, formatTime(car.ManufacturingDate), string(car.Drive),
		car.Model.ID, car.Engine.ID, car.Category.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read car id: %w", err)
	}
	car.ID = id
	car.Version = 1
	scs.logger.Infof("Created car %s (id=%d)", car.SerialNumber, car.ID)
	return nil
}

// UpdateCar overwrites a car row under the optimistic policy: the
// UPDATE commits only when the stored version still equals
// expectedVersion, and increments it. A concurrent writer that got
// there first leaves the stale writer with ErrVersionConflict; callers
// must re-fetch and retry, nothing is retried here.
func (scs *SQLiteCarStorage) UpdateCar(ctx context.Context, car *core.Car, expectedVersion int64) error {
	return scs.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE cars
			 SET color = ?, serial_number = ?, manufacturing_date = ?, drive = ?,
			     model_id = ?, engine_id = ?, category_id = ?, version = version + 1
			 WHERE id = ? AND version = ?`,
			car.Color, car.SerialNumber, formatTime(car.ManufacturingDate), string(car.Drive),
			car.Model.ID, car.Engine.ID, car.Category.ID,
			car.ID, expectedVersion,
		)
		if err != nil {
			return mapConstraintError(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read update result: %w", err)
		}
		if affected == 0 {
			// Distinguish a missing row from a stale version.
			var one int
			err := tx.QueryRowContext(ctx, "SELECT 1 FROM cars WHERE id = ?", car.ID).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCarNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to classify update conflict: %w", err)
			}
			metrics.CarVersionConflicts.Inc()
			scs.logger.Warnf("Version conflict updating car id=%d (expected version %d)", car.ID, expectedVersion)
			return ErrVersionConflict
		}
		car.Version = expectedVersion + 1
		return nil
	})
}

// DeleteCar physically removes a car row.
func (scs *SQLiteCarStorage) DeleteCar(ctx context.Context, id int64) error {
	res, err := scs.db.WriteDB.ExecContext(ctx, "DELETE FROM cars WHERE id = ?", id)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrCarNotFound
	}
	scs.logger.Infof("Deleted car id=%d", id)
	return nil
}
