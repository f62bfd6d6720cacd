package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autocatalog/core"
)

var brandSortFields = map[string]string{
	"id":   "id",
	"name": "name",
}

// SQLiteBrandStorage handles brand persistence in SQLite.
type SQLiteBrandStorage struct {
	db     *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteBrandStorage creates a new SQLite brand storage handler.
func NewSQLiteBrandStorage(db *SQLite, logger *zap.SugaredLogger) *SQLiteBrandStorage {
	return &SQLiteBrandStorage{db: db, logger: logger}
}

// GetBrand retrieves a single brand by id.
func (sbs *SQLiteBrandStorage) GetBrand(ctx context.Context, id int64) (*core.Brand, error) {
	var brand core.Brand
	err := sbs.db.ReadDB.QueryRowContext(ctx,
		"SELECT id, name FROM brands WHERE id = ?", id,
	).Scan(&brand.ID, &brand.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return &brand, nil
}

// BrandExists reports whether a brand with the given id exists.
func (sbs *SQLiteBrandStorage) BrandExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := sbs.db.ReadDB.QueryRowContext(ctx,
		"SELECT 1 FROM brands WHERE id = ?", id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check brand existence: %w", err)
	}
	return true, nil
}

// ListBrands retrieves one page of brands ordered by the requested field.
func (sbs *SQLiteBrandStorage) ListBrands(ctx context.Context, req core.PageRequest) (*core.Page[core.Brand], error) {
	order, err := orderClause(brandSortFields, req)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := sbs.db.ReadDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM brands").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count brands: %w", err)
	}

	rows, err := sbs.db.ReadDB.QueryContext(ctx,
		"SELECT id, name FROM brands"+order+" LIMIT ? OFFSET ?",
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []core.Brand
	for rows.Next() {
		var brand core.Brand
		if err := rows.Scan(&brand.ID, &brand.Name); err != nil {
			return nil, fmt.Errorf("failed to scan brand row: %w", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brand rows: %w", err)
	}

	return core.NewPage(brands, req, total), nil
}

// CreateBrand inserts a brand and assigns its server-generated id.
func (sbs *SQLiteBrandStorage) CreateBrand(ctx context.Context, brand *core.Brand) error {
	res, err := sbs.db.WriteDB.ExecContext(ctx,
		"INSERT INTO brands (name) VALUES (?)", brand.Name,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read brand id: %w", err)
	}
	brand.ID = id
	sbs.logger.Infof("Created brand %q (id=%d)", brand.Name, brand.ID)
	return nil
}

// UpdateBrand overwrites the brand's mutable fields in place.
func (sbs *SQLiteBrandStorage) UpdateBrand(ctx context.Context, brand *core.Brand) error {
	res, err := sbs.db.WriteDB.ExecContext(ctx,
		"UPDATE brands SET name = ? WHERE id = ?", brand.Name, brand.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrBrandNotFound
	}
	return nil
}

// DeleteBrand physically removes a brand row. Dependent models are not
// checked; a foreign key violation surfaces as ErrConstraintViolation.
func (sbs *SQLiteBrandStorage) DeleteBrand(ctx context.Context, id int64) error {
	res, err := sbs.db.WriteDB.ExecContext(ctx, "DELETE FROM brands WHERE id = ?", id)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrBrandNotFound
	}
	sbs.logger.Infof("Deleted brand id=%d", id)
	return nil
}
