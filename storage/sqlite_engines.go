package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autocatalog/core"
)

var engineSortFields = map[string]string{
	"id":       "id",
	"name":     "name",
	"capacity": "capacity",
	"type":     "type",
}

// SQLiteEngineStorage handles engine persistence in SQLite.
type SQLiteEngineStorage struct {
	db     *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteEngineStorage creates a new SQLite engine storage handler.
func NewSQLiteEngineStorage(db *SQLite, logger *zap.SugaredLogger) *SQLiteEngineStorage {
	return &SQLiteEngineStorage{db: db, logger: logger}
}

// GetEngine retrieves a single engine by id.
func (ses *SQLiteEngineStorage) GetEngine(ctx context.Context, id int64) (*core.Engine, error) {
	var engine core.Engine
	err := ses.db.ReadDB.QueryRowContext(ctx,
		"SELECT id, name, capacity, type FROM engines WHERE id = ?", id,
	).Scan(&engine.ID, &engine.Name, &engine.Capacity, &engine.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEngineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engine: %w", err)
	}
	return &engine, nil
}

// EngineExists reports whether an engine with the given id exists.
func (ses *SQLiteEngineStorage) EngineExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := ses.db.ReadDB.QueryRowContext(ctx,
		"SELECT 1 FROM engines WHERE id = ?", id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check engine existence: %w", err)
	}
	return true, nil
}

// ListEngines retrieves one page of engines.
func (ses *SQLiteEngineStorage) ListEngines(ctx context.Context, req core.PageRequest) (*core.Page[core.Engine], error) {
	order, err := orderClause(engineSortFields, req)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := ses.db.ReadDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM engines").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count engines: %w", err)
	}

	rows, err := ses.db.ReadDB.QueryContext(ctx,
		"SELECT id, name, capacity, type FROM engines"+order+" LIMIT ? OFFSET ?",
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list engines: %w", err)
	}
	defer rows.Close()

	var engines []core.Engine
	for rows.Next() {
		var engine core.Engine
		if err := rows.Scan(&engine.ID, &engine.Name, &engine.Capacity, &engine.Type); err != nil {
			return nil, fmt.Errorf("failed to scan engine row: %w", err)
		}
		engines = append(engines, engine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate engine rows: %w", err)
	}

	return core.NewPage(engines, req, total), nil
}

// CreateEngine inserts an engine and assigns its server-generated id.
func (ses *SQLiteEngineStorage) CreateEngine(ctx context.Context, engine *core.Engine) error {
	res, err := ses.db.WriteDB.ExecContext(ctx,
		"INSERT INTO engines (name, capacity, type) VALUES (?, ?, ?)",
		engine.Name, engine.Capacity, string(engine.Type),
	)
	if err != nil {
		return mapConstraintError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read engine id: %w", err)
	}
	engine.ID = id
	ses.logger.Infof("Created engine %q (id=%d)", engine.Name, engine.ID)
	return nil
}

// UpdateEngine overwrites the engine's mutable fields in place.
func (ses *SQLiteEngineStorage) UpdateEngine(ctx context.Context, engine *core.Engine) error {
	res, err := ses.db.WriteDB.ExecContext(ctx,
		"UPDATE engines SET name = ?, capacity = ?, type = ? WHERE id = ?",
		engine.Name, engine.Capacity, string(engine.Type), engine.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrEngineNotFound
	}
	return nil
}

// DeleteEngine physically removes an engine row.
func (ses *SQLiteEngineStorage) DeleteEngine(ctx context.Context, id int64) error {
	res, err := ses.db.WriteDB.ExecContext(ctx, "DELETE FROM engines WHERE id = ?", id)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrEngineNotFound
	}
	ses.logger.Infof("Deleted engine id=%d", id)
	return nil
}
