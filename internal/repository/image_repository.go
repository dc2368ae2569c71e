package repository

import (
	"context"
	"fmt"

	"teslo-catalog/internal/domain"

	"github.com/google/uuid"
)

// ImageRepository defines the interface for product image data access.
// Images have no independent lifecycle; the catalog service only ever
// touches them through their owning product.
type ImageRepository interface {
	Insert(ctx context.Context, q Querier, images []domain.Image) error
	DeleteByProduct(ctx context.Context, q Querier, productID uuid.UUID) error
	DeleteAll(ctx context.Context, q Querier) error
}

type imageRepository struct{}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository() ImageRepository {
	return imageRepository{}
}

// Insert persists image rows, preserving their position order.
func (imageRepository) Insert(ctx context.Context, q Querier, images []domain.Image) error {
	query := `
		INSERT INTO product_images (id, url, product_id, position)
		VALUES ($1, $2, $3, $4)
	`

	for _, img := range images {
		if _, err := q.Exec(ctx, query, img.ID, img.URL, img.ProductID, img.Position); err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}

	return nil
}

// DeleteByProduct removes every image owned by the given product.
func (imageRepository) DeleteByProduct(ctx context.Context, q Querier, productID uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to delete product images: %w", err)
	}
	return nil
}

// DeleteAll removes every image. Used only by the reseed path.
func (imageRepository) DeleteAll(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, `DELETE FROM product_images`); err != nil {
		return fmt.Errorf("failed to delete all product images: %w", err)
	}
	return nil
}
