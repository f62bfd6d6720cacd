package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autocatalog/core"
)

var categorySortFields = map[string]string{
	"id":   "id",
	"name": "name",
}

// SQLiteCategoryStorage handles category persistence in SQLite.
type SQLiteCategoryStorage struct {
	db     *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteCategoryStorage creates a new SQLite category storage handler.
func NewSQLiteCategoryStorage(db *SQLite, logger *zap.SugaredLogger) *SQLiteCategoryStorage {
	return &SQLiteCategoryStorage{db: db, logger: logger}
}

// GetCategory retrieves a single category by id.
func (scs *SQLiteCategoryStorage) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	var category core.Category
	err := scs.db.ReadDB.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE id = ?", id,
	).Scan(&category.ID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// CategoryExists reports whether a category with the given id exists.
func (scs *SQLiteCategoryStorage) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := scs.db.ReadDB.QueryRowContext(ctx,
		"SELECT 1 FROM categories WHERE id = ?", id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return true, nil
}

// ListCategories retrieves one page of categories.
func (scs *SQLiteCategoryStorage) ListCategories(ctx context.Context, req core.PageRequest) (*core.Page[core.Category], error) {
	order, err := orderClause(categorySortFields, req)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := scs.db.ReadDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	rows, err := scs.db.ReadDB.QueryContext(ctx,
		"SELECT id, name FROM categories"+order+" LIMIT ? OFFSET ?",
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var category core.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	return core.NewPage(categories, req, total), nil
}

// CreateCategory inserts a category and assigns its server-generated id.
func (scs *SQLiteCategoryStorage) CreateCategory(ctx context.Context, category *core.Category) error {
	res, err := scs.db.WriteDB.ExecContext(ctx,
		"INSERT INTO categories (name) VALUES (?)", category.Name,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read category id: %w", err)
	}
	category.ID = id
	scs.logger.Infof("Created category %q (id=%d)", category.Name, category.ID)
	return nil
}

// UpdateCategory overwrites the category's mutable fields in place.
func (scs *SQLiteCategoryStorage) UpdateCategory(ctx context.Context, category *core.Category) error {
	res, err := scs.db.WriteDB.ExecContext(ctx,
		"UPDATE categories SET name = ? WHERE id = ?", category.Name, category.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory physically removes a category row.
func (scs *SQLiteCategoryStorage) DeleteCategory(ctx context.Context, id int64) error {
	res, err := scs.db.WriteDB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	scs.logger.Infof("Deleted category id=%d", id)
	return nil
}
