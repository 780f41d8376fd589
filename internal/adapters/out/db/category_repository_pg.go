// internal/adapters/out/db/category_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	dbcommon "digitalstore/internal/adapters/out/db/common"
	categorydom "digitalstore/internal/domain/category"
)

// PostgreSQL implementation of category.Repository.
type CategoryRepositoryPG struct {
	DB *sql.DB
}

func NewCategoryRepositoryPG(db *sql.DB) *CategoryRepositoryPG {
	return &CategoryRepositoryPG{DB: db}
}

func (r *CategoryRepositoryPG) List(ctx context.Context, nameQuery string) ([]categorydom.Category, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	q := `
SELECT id, name, description
FROM categories`
	args := []any{}
	if nameQuery != "" {
		q += `
WHERE name ILIKE $1`
		args = append(args, "%"+nameQuery+"%")
	}
	q += `
ORDER BY name ASC`

	rows, err := run.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []categorydom.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepositoryPG) GetByID(ctx context.Context, id string) (categorydom.Category, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx, `
SELECT id, name, description
FROM categories
WHERE id = $1`, strings.TrimSpace(id))
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return categorydom.Category{}, categorydom.ErrNotFound
		}
		return categorydom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryPG) ListByIDs(ctx context.Context, ids []string) ([]categorydom.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	run := dbcommon.GetRunner(ctx, r.DB)
	rows, err := run.QueryContext(ctx, `
SELECT id, name, description
FROM categories
WHERE id = ANY($1)
ORDER BY name ASC`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []categorydom.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepositoryPG) Create(ctx context.Context, c categorydom.Category) (categorydom.Category, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `
INSERT INTO categories (id, name, description)
VALUES ($1, $2, $3)`, c.ID, c.Name, c.Description)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return categorydom.Category{}, categorydom.ErrConflict
		}
		return categorydom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryPG) Update(ctx context.Context, c categorydom.Category) (categorydom.Category, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	res, err := run.ExecContext(ctx, `
UPDATE categories
SET name = $2, description = $3
WHERE id = $1`, c.ID, c.Name, c.Description)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return categorydom.Category{}, categorydom.ErrConflict
		}
		return categorydom.Category{}, err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return categorydom.Category{}, categorydom.ErrNotFound
	}
	return c, nil
}

// Delete removes the category; the product_categories FK cascade drops the
// associations while the products themselves stay.
func (r *CategoryRepositoryPG) Delete(ctx context.Context, id string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	res, err := run.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return categorydom.ErrNotFound
	}
	return nil
}

func scanCategory(s dbcommon.RowScanner) (categorydom.Category, error) {
	var c categorydom.Category
	if err := s.Scan(&c.ID, &c.Name, &c.Description); err != nil {
		return categorydom.Category{}, err
	}
	return c, nil
}
