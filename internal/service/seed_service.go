package service

import (
	"context"
	"fmt"
	"time"

	"teslo-catalog/internal/domain"
	"teslo-catalog/internal/repository"
	"teslo-catalog/internal/seed"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// SeedService resets the store to the fixed dataset: it wipes products and
// users, inserts the seed users, then inserts the seed products concurrently.
type SeedService interface {
	Run(ctx context.Context) error
}

type seedService struct {
	catalog CatalogService
	users   repository.UserRepository
	logger  *zap.Logger
}

// NewSeedService creates a new instance of SeedService
func NewSeedService(catalog CatalogService, users repository.UserRepository, logger *zap.Logger) SeedService {
	return &seedService{
		catalog: catalog,
		users:   users,
		logger:  logger,
	}
}

// Run executes the reseed: delete products, delete users, insert the user
// dataset, insert the product dataset. Product creations are dispatched
// concurrently and joined before returning; the first failure aborts the
// whole run with that error, partial success is never masked. Reseeding is
// expected to be retried wholesale after a failure.
func (s *seedService) Run(ctx context.Context) error {
	start := time.Now()

	if err := s.deleteTables(ctx); err != nil {
		return err
	}

	admin, err := s.insertUsers(ctx)
	if err != nil {
		return err
	}

	if err := s.insertProducts(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("Seed executed successfully",
		zap.Int("users", len(seed.Users)),
		zap.Int("products", len(seed.Products)),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

func (s *seedService) deleteTables(ctx context.Context) error {
	if err := s.catalog.DeleteAllProducts(ctx); err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}

	if err := s.users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	return nil
}

// insertUsers inserts the seed identities and returns the first one, which
// is attributed as the owner of every seeded product.
func (s *seedService) insertUsers(ctx context.Context) (*domain.User, error) {
	var admin *domain.User

	for _, su := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password: %w", err)
		}

		now := time.Now().UTC()
		user := &domain.User{
			ID:           uuid.New(),
			Email:        su.Email,
			PasswordHash: string(hash),
			FullName:     su.FullName,
			IsActive:     true,
			Roles:        su.Roles,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to insert seed user %s: %w", su.Email, err)
		}

		if admin == nil {
			admin = user
		}
	}

	return admin, nil
}

// insertProducts dispatches one create per seed product and waits for the
// whole batch. Seed titles are pairwise distinct, so the concurrent creates
// never race on the uniqueness constraint.
func (s *seedService) insertProducts(ctx context.Context, owner *domain.User) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, sp := range seed.Products {
		g.Go(func() error {
			input := CreateProductInput{
				Title:       sp.Title,
				Price:       sp.Price,
				Description: sp.Description,
				Stock:       sp.Stock,
				Sizes:       sp.Sizes,
				Gender:      sp.Gender,
				Tags:        sp.Tags,
				Images:      sp.Images,
			}

			if _, err := s.catalog.Create(ctx, input, owner); err != nil {
				return fmt.Errorf("failed to insert seed product %q: %w", sp.Title, err)
			}
			return nil
		})
	}

	return g.Wait()
}
