package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/farmstand/internal/common"
	"github.com/dmitrijs2005/farmstand/internal/dbx"
	"github.com/dmitrijs2005/farmstand/internal/devserver/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const productColumns = `id, name, price, description, image_path, thumb_path, seller, seller_name, seller_email, created_at`

func (r *SQLiteRepository) Create(ctx context.Context, p *models.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, description, image_path, thumb_path, seller, seller_name, seller_email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Price, p.Description, p.ImagePath, p.ThumbPath, p.Seller, p.SellerName, p.SellerEmail)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Description, &p.ImagePath, &p.ThumbPath,
		&p.Seller, &p.SellerName, &p.SellerEmail, &p.CreatedAt,
	)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	result := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p *models.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, price = ?, description = ?, image_path = ?, thumb_path = ?
		WHERE id = ?
	`, p.Name, p.Price, p.Description, p.ImagePath, p.ThumbPath, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
