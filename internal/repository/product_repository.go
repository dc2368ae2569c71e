package repository

import (
	"context"
	"errors"
	"fmt"

	"teslo-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicate       = errors.New("duplicate key value violates a unique constraint")
)

const productColumns = `id, title, price, description, slug, stock, sizes, gender, tags, user_id, created_at, updated_at`

// ProductRepository defines the interface for product data access. Every
// method takes a Querier so the catalog service can run it against the pool
// or inside a transaction it owns.
type ProductRepository interface {
	Insert(ctx context.Context, q Querier, product *domain.Product) error
	Update(ctx context.Context, q Querier, product *domain.Product) error
	FindByID(ctx context.Context, q Querier, id uuid.UUID) (*domain.Product, error)
	FindByTerm(ctx context.Context, q Querier, term string) (*domain.Product, error)
	List(ctx context.Context, q Querier, limit, offset int) ([]*domain.Product, error)
	Delete(ctx context.Context, q Querier, id uuid.UUID) error
	DeleteAll(ctx context.Context, q Querier) error
}

type productRepository struct{}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository() ProductRepository {
	return productRepository{}
}

// Insert persists a new product row using parameterized queries. A title or
// slug collision surfaces as ErrDuplicate wrapping the constraint detail.
func (productRepository) Insert(ctx context.Context, q Querier, product *domain.Product) error {
	query := `
		INSERT INTO products (id, title, price, description, slug, stock, sizes, gender, tags, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := q.Exec(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Price,
		product.Description,
		product.Slug,
		product.Stock,
		product.Sizes,
		product.Gender,
		product.Tags,
		product.UserID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.Detail)
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// Update replaces the scalar fields of an existing product row.
func (productRepository) Update(ctx context.Context, q Querier, product *domain.Product) error {
	query := `
		UPDATE products
		SET title = $2, price = $3, description = $4, slug = $5, stock = $6,
		    sizes = $7, gender = $8, tags = $9, user_id = $10, updated_at = $11
		WHERE id = $1
	`

	tag, err := q.Exec(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Price,
		product.Description,
		product.Slug,
		product.Stock,
		product.Sizes,
		product.Gender,
		product.Tags,
		product.UserID,
		product.UpdatedAt,
	)

	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.Detail)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID with its images attached in display
// order.
func (r productRepository) FindByID(ctx context.Context, q Querier, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProductRow(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if err := r.attachImages(ctx, q, product); err != nil {
		return nil, err
	}

	return product, nil
}

// FindByTerm retrieves a product whose title matches the term
// case-insensitively or whose slug equals the lowercased term. A single
// disjunctive query, not two sequential attempts; images are attached.
func (r productRepository) FindByTerm(ctx context.Context, q Querier, term string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE UPPER(title) = UPPER($1) OR slug = LOWER($1)
		LIMIT 1
	`, productColumns)

	product, err := scanProductRow(q.QueryRow(ctx, query, term))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by term: %w", err)
	}

	if err := r.attachImages(ctx, q, product); err != nil {
		return nil, err
	}

	return product, nil
}

// List retrieves products in insertion order with pagination, each with its
// images attached.
func (productRepository) List(ctx context.Context, q Querier, limit, offset int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, productColumns)

	rows, err := q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if len(products) == 0 {
		return products, nil
	}

	// Fetch images for the whole page in one query and group by product.
	ids := make([]uuid.UUID, len(products))
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	imgQuery := `
		SELECT id, url, product_id, position
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY product_id, position
	`

	imgRows, err := q.Query(ctx, imgQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var img domain.Image
		if err := imgRows.Scan(&img.ID, &img.URL, &img.ProductID, &img.Position); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		if p, ok := byID[img.ProductID]; ok {
			p.Images = append(p.Images, img)
		}
	}

	if err = imgRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return products, nil
}

// Delete removes a product row. Its images are removed by the ON DELETE
// CASCADE constraint on product_images.
func (productRepository) Delete(ctx context.Context, q Querier, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DeleteAll removes every product (and transitively every image). Used only
// by the reseed path.
func (productRepository) DeleteAll(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to delete all products: %w", err)
	}
	return nil
}

// attachImages loads the images owned by the product in display order.
func (productRepository) attachImages(ctx context.Context, q Querier, product *domain.Product) error {
	query := `
		SELECT id, url, product_id, position
		FROM product_images
		WHERE product_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, query, product.ID)
	if err != nil {
		return fmt.Errorf("failed to load product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.ProductID, &img.Position); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		product.Images = append(product.Images, img)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating product images: %w", err)
	}

	return nil
}

func scanProductRow(row pgx.Row) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Price,
		&product.Description,
		&product.Slug,
		&product.Stock,
		&product.Sizes,
		&product.Gender,
		&product.Tags,
		&product.UserID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
