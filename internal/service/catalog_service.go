package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teslo-catalog/internal/domain"
	"teslo-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	// DefaultLimit is the page size used when the caller supplies none
	DefaultLimit = 10
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("duplicate product")
	ErrInternal         = errors.New("unexpected error, check server logs")
)

// CreateProductInput carries the already shape-validated fields for a new
// product. Images is the list of plain URL strings to attach.
type CreateProductInput struct {
	Title       string
	Price       float64
	Description string
	Slug        string
	Stock       int
	Sizes       []string
	Gender      string
	Tags        []string
	Images      []string
}

// UpdateProductInput is a partial patch: nil fields are left untouched. A
// non-nil Images list (including an empty one) fully replaces the product's
// image set.
type UpdateProductInput struct {
	Title       *string
	Price       *float64
	Description *string
	Slug        *string
	Stock       *int
	Sizes       []string
	Gender      *string
	Tags        []string
	Images      []string
}

// CatalogService orchestrates the product and image stores inside
// transaction boundaries. It is the only component that opens transactions.
type CatalogService interface {
	Create(ctx context.Context, input CreateProductInput, user *domain.User) (*domain.Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	FindOne(ctx context.Context, term string) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput, user *domain.User) (*domain.Product, error)
	Remove(ctx context.Context, id uuid.UUID) error
	DeleteAllProducts(ctx context.Context) error
}

type catalogService struct {
	pool     *pgxpool.Pool
	products repository.ProductRepository
	images   repository.ImageRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	pool *pgxpool.Pool,
	products repository.ProductRepository,
	images repository.ImageRepository,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		pool:     pool,
		products: products,
		images:   images,
		logger:   logger,
	}
}

// Create persists a new product together with its image records in a single
// transaction. The slug falls back to the title when absent and is always
// stored normalized. The returned product carries the committed image set.
func (s *catalogService) Create(ctx context.Context, input CreateProductInput, user *domain.User) (*domain.Product, error) {
	now := time.Now().UTC()

	slug := input.Slug
	if slug == "" {
		slug = input.Title
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		Slug:        domain.NormalizeSlug(slug),
		Stock:       input.Stock,
		Sizes:       input.Sizes,
		Gender:      input.Gender,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if user != nil {
		product.UserID = &user.ID
	}

	images := buildProductImages(product.ID, input.Images)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.products.Insert(ctx, tx, product); err != nil {
		return nil, s.handleError(err)
	}

	if err := s.images.Insert(ctx, tx, images); err != nil {
		return nil, s.handleError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.handleError(err)
	}

	product.Images = images
	return product, nil
}

// FindAll retrieves a page of products in insertion order with their images
// attached. Non-positive limits fall back to DefaultLimit, negative offsets
// to zero.
func (s *catalogService) FindAll(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.products.List(ctx, s.pool, limit, offset)
	if err != nil {
		return nil, s.handleError(err)
	}

	return products, nil
}

// FindOne resolves a lookup term: a term that parses as a UUID is looked up
// by exact identifier, anything else matches title (case-insensitively) or
// slug in a single disjunctive query.
func (s *catalogService) FindOne(ctx context.Context, term string) (*domain.Product, error) {
	var (
		product *domain.Product
		err     error
	)

	if id, parseErr := uuid.Parse(term); parseErr == nil {
		product, err = s.products.FindByID(ctx, s.pool, id)
	} else {
		product, err = s.products.FindByTerm(ctx, s.pool, term)
	}

	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, term)
		}
		return nil, s.handleError(err)
	}

	return product, nil
}

// Update merges the patch onto the existing product, then applies the
// mutation inside one transaction: when the patch carries an image list the
// old images are deleted and the new ones inserted wholesale, the owner is
// reassigned, and the product row is saved. On any failure the transaction
// rolls back completely. The returned product is re-fetched after commit so
// the caller always sees committed, fully joined state.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput, user *domain.User) (*domain.Product, error) {
	// Lookup phase, outside any transaction.
	product, err := s.products.FindByID(ctx, s.pool, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, s.handleError(err)
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Slug != nil {
		product.Slug = *input.Slug
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Gender != nil {
		product.Gender = *input.Gender
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}

	// The slug invariant holds at every write, supplied or not.
	product.Slug = domain.NormalizeSlug(product.Slug)
	product.UpdatedAt = time.Now().UTC()

	product.UserID = nil
	if user != nil {
		product.UserID = &user.ID
	}

	// Mutation phase, one transaction.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if input.Images != nil {
		if err := s.images.DeleteByProduct(ctx, tx, id); err != nil {
			return nil, s.handleError(err)
		}
		if err := s.images.Insert(ctx, tx, buildProductImages(id, input.Images)); err != nil {
			return nil, s.handleError(err)
		}
	}

	if err := s.products.Update(ctx, tx, product); err != nil {
		return nil, s.handleError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.handleError(err)
	}

	fresh, err := s.products.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, s.handleError(err)
	}

	return fresh, nil
}

// Remove deletes a product by exact identifier. Image deletion cascades via
// the data model, it is not re-implemented here.
func (s *catalogService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, s.pool, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return s.handleError(err)
	}

	if err := s.products.Delete(ctx, s.pool, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return s.handleError(err)
	}

	return nil
}

// DeleteAllProducts removes every product and every image in one
// transaction. Used exclusively by the seed service.
func (s *catalogService) DeleteAllProducts(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return s.handleError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.images.DeleteAll(ctx, tx); err != nil {
		return s.handleError(err)
	}

	if err := s.products.DeleteAll(ctx, tx); err != nil {
		return s.handleError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return s.handleError(err)
	}

	return nil
}

// handleError classifies a persistence failure: uniqueness violations are
// surfaced with their constraint detail so the caller can correct the input,
// everything else is logged server-side and replaced with a generic message.
func (s *catalogService) handleError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %v", ErrDuplicateProduct, err)
	}

	s.logger.Error("Unexpected persistence error", zap.Error(err))
	return ErrInternal
}

func buildProductImages(productID uuid.UUID, urls []string) []domain.Image {
	images := make([]domain.Image, 0, len(urls))
	for i, url := range urls {
		images = append(images, domain.Image{
			ID:        uuid.New(),
			URL:       url,
			ProductID: productID,
			Position:  i,
		})
	}
	return images
}
