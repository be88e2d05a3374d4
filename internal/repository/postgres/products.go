package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/pkg/errors"
)

const productColumns = `id, product_id, title, handle, price, length_min, length_max, length_option,
		width_min, width_max, width_option, status, created_at, updated_at`

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var handle sql.NullString
	err := row.Scan(
		&p.ID, &p.ProductID, &p.Title, &handle, &p.Price,
		&p.LengthMin, &p.LengthMax, &p.LengthOption,
		&p.WidthMin, &p.WidthMax, &p.WidthOption,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if handle.Valid {
		p.Handle = &handle.String
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, product_id ASC`
	return r.query(ctx, query)
}

func (r *productRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = true ORDER BY product_id ASC`
	return r.query(ctx, query)
}

func (r *productRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, productID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: productID}
	}
	if err != nil {
		r.logger.Error("Failed to get product", zap.Error(err), zap.String("product_id", productID))
		return nil, err
	}
	return p, nil
}

func (r *productRepository) UpsertSelected(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, product_id, title, handle, length_option, width_option, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id) DO UPDATE SET
			title = EXCLUDED.title,
			handle = EXCLUDED.handle,
			updated_at = EXCLUDED.updated_at
	`
	now := time.Now()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.LengthOption == "" {
		p.LengthOption = domain.DefaultLengthOption
	}
	if p.WidthOption == "" {
		p.WidthOption = domain.DefaultWidthOption
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ProductID, p.Title, p.Handle, p.LengthOption, p.WidthOption, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert product", zap.Error(err), zap.String("product_id", p.ProductID))
		return err
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		r.logger.Error("Failed to delete product", zap.Error(err), zap.String("product_id", productID))
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: productID}
	}
	return nil
}

func (r *productRepository) UpdateBatch(ctx context.Context, products []*domain.Product) error {
	// Status is only written on conflict: a product created here starts inactive.
	query := `
		INSERT INTO products (id, product_id, title, price, length_min, length_max, width_min, width_max, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (product_id) DO UPDATE SET
			price = EXCLUDED.price,
			length_min = EXCLUDED.length_min,
			length_max = EXCLUDED.length_max,
			width_min = EXCLUDED.width_min,
			width_max = EXCLUDED.width_max,
			status = $11,
			updated_at = EXCLUDED.updated_at
	`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare product upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.ProductID, p.Title, p.Price,
			p.LengthMin, p.LengthMax, p.WidthMin, p.WidthMax,
			p.CreatedAt, p.UpdatedAt, p.Status,
		); err != nil {
			r.logger.Error("Failed to upsert product in batch", zap.Error(err), zap.String("product_id", p.ProductID))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product batch: %w", err)
	}
	return nil
}
