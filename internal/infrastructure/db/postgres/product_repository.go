package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

const productColumns = `id, owner_id, owner_username, name, price, status, created_at, updated_at`

// ProductRepository implements ports.ProductRepository on PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) ListOwnedIDs(ctx context.Context, accountID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT id FROM products WHERE owner_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list owned products: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect owned products: %w", err)
	}
	return ids, nil
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row pgx.Row
	if product.ID == 0 {
		row = r.pool.QueryRow(ctx, `
			INSERT INTO products (owner_id, owner_username, name, price, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+productColumns,
			product.OwnerID, product.OwnerUsername, product.Name, product.Price,
			string(product.Status), product.CreatedAt, product.UpdatedAt,
		)
	} else {
		row = r.pool.QueryRow(ctx, `
			UPDATE products
			SET name = $2, price = $3, status = $4, updated_at = $5
			WHERE id = $1
			RETURNING `+productColumns,
			product.ID, product.Name, product.Price, string(product.Status), product.UpdatedAt,
		)
	}

	saved, err := scanProduct(row)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("save product: %w", err)
	}
	return saved, nil
}

// List returns one page of matching products ordered by id, plus the total.
func (r *ProductRepository) List(ctx context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := productWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY id`
	if f.Limit > 0 {
		n := len(args)
		query += ` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
		args = append(args, f.Limit, f.Page*f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("collect products: %w", err)
	}
	return items, total, nil
}

// productWhere builds the WHERE clause and its positional arguments.
func productWhere(f ports.ListProductsFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.OwnerID != 0 {
		args = append(args, f.OwnerID)
		conds = append(conds, "owner_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p      domain.Product
		status string
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.OwnerUsername, &p.Name, &p.Price, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = domain.Status(status)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
