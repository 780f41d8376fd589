// internal/adapters/out/db/product_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	dbcommon "digitalstore/internal/adapters/out/db/common"
	categorydom "digitalstore/internal/domain/category"
	productdom "digitalstore/internal/domain/product"
)

// PostgreSQL implementation of product.Repository.
type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

const productColumns = `id, name, description, price, seller_id, image_url, created_at, updated_at`

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx, `
SELECT `+productColumns+`
FROM products
WHERE id = $1`, strings.TrimSpace(id))
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return r.withCategories(ctx, p)
}

func (r *ProductRepositoryPG) ListByIDs(ctx context.Context, ids []string) ([]productdom.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	run := dbcommon.GetRunner(ctx, r.DB)
	rows, err := run.QueryContext(ctx, `
SELECT `+productColumns+`
FROM products
WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepositoryPG) List(ctx context.Context, filter productdom.Filter) ([]productdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	where := []string{}
	args := []any{}
	if q := strings.TrimSpace(filter.NameQuery); q != "" {
		where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+q+"%")
	}
	if sid := strings.TrimSpace(filter.SellerID); sid != "" {
		where = append(where, fmt.Sprintf("p.seller_id = $%d", len(args)+1))
		args = append(args, sid)
	}
	if cid := strings.TrimSpace(filter.CategoryID); cid != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = $%d)",
			len(args)+1))
		args = append(args, cid)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	q := fmt.Sprintf(`
SELECT p.id, p.name, p.description, p.price, p.seller_id, p.image_url, p.created_at, p.updated_at
FROM products p
%s
ORDER BY p.created_at DESC, p.id DESC`, whereSQL)

	rows, err := run.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for i := range products {
		p, err := r.withCategories(ctx, products[i])
		if err != nil {
			return nil, err
		}
		products[i] = p
	}
	return products, nil
}

func (r *ProductRepositoryPG) Create(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `
INSERT INTO products (id, name, description, price, seller_id, image_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, dbcommon.ToDBText(p.Description), p.Price, p.SellerID,
		dbcommon.ToDBText(p.ImageURL), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if dbcommon.IsForeignKeyViolation(err) {
			return productdom.Product{}, productdom.ErrInvalidSellerID
		}
		return productdom.Product{}, err
	}
	if err := r.replaceCategories(ctx, p.ID, p.CategoryIDs); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

// Update applies the patch. The seller column is deliberately untouchable:
// ownership is fixed at creation.
func (r *ProductRepositoryPG) Update(ctx context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	id = strings.TrimSpace(id)

	sets := []string{}
	args := []any{}
	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, strings.TrimSpace(*patch.Name))
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, dbcommon.ToDBText(patch.Description))
	}
	if patch.Price != nil {
		sets = append(sets, fmt.Sprintf("price = $%d", len(args)+1))
		args = append(args, *patch.Price)
	}
	if patch.ImageURL != nil {
		sets = append(sets, fmt.Sprintf("image_url = $%d", len(args)+1))
		args = append(args, dbcommon.ToDBText(patch.ImageURL))
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = NOW()")
		q := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)+1)
		args = append(args, id)
		res, err := run.ExecContext(ctx, q, args...)
		if err != nil {
			return productdom.Product{}, err
		}
		aff, _ := res.RowsAffected()
		if aff == 0 {
			return productdom.Product{}, productdom.ErrNotFound
		}
	}

	if patch.CategoryIDs != nil {
		if err := r.replaceCategories(ctx, id, *patch.CategoryIDs); err != nil {
			return productdom.Product{}, err
		}
	}

	return r.GetByID(ctx, id)
}

func (r *ProductRepositoryPG) Delete(ctx context.Context, id string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	res, err := run.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return productdom.ErrNotFound
	}
	return nil
}

// ==============================
// categories (m:n)
// ==============================

func (r *ProductRepositoryPG) replaceCategories(ctx context.Context, productID string, categoryIDs []string) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	if _, err := run.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for _, cid := range categoryIDs {
		_, err := run.ExecContext(ctx, `
INSERT INTO product_categories (product_id, category_id)
VALUES ($1, $2)
ON CONFLICT (product_id, category_id) DO NOTHING`, productID, strings.TrimSpace(cid))
		if err != nil {
			if dbcommon.IsForeignKeyViolation(err) {
				return categorydom.ErrNotFound
			}
			return err
		}
	}
	return nil
}

func (r *ProductRepositoryPG) withCategories(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	rows, err := run.QueryContext(ctx, `
SELECT category_id
FROM product_categories
WHERE product_id = $1
ORDER BY category_id`, p.ID)
	if err != nil {
		return productdom.Product{}, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return productdom.Product{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return productdom.Product{}, err
	}
	p.CategoryIDs = ids
	return p, nil
}

// ==============================
// scan helpers
// ==============================

func collectProducts(rows *sql.Rows) ([]productdom.Product, error) {
	var out []productdom.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(s dbcommon.RowScanner) (productdom.Product, error) {
	var (
		p           productdom.Product
		description sql.NullString
		imageURL    sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &description, &p.Price, &p.SellerID, &imageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return productdom.Product{}, err
	}
	p.Description = dbcommon.FromNullString(description)
	p.ImageURL = dbcommon.FromNullString(imageURL)
	return p, nil
}
