package service

import (
	"context"
	"testing"

	"teslo-catalog/internal/repository"
	"teslo-catalog/internal/seed"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestSeed(t *testing.T) (SeedService, repository.UserRepository) {
	t.Helper()

	users := repository.NewUserRepository(testPool)
	catalog := NewCatalogService(
		testPool,
		repository.NewProductRepository(),
		repository.NewImageRepository(),
		zap.NewNop(),
	)

	return NewSeedService(catalog, users, zap.NewNop()), users
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var count int
	if err := testPool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}

// Feature: catalog-platform, Property 8: Reseeding reproduces the dataset
func TestSeedRun(t *testing.T) {
	seedService, users := newTestSeed(t)
	ctx := context.Background()

	if err := seedService.Run(ctx); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	if got := countRows(t, "products"); got != len(seed.Products) {
		t.Fatalf("expected %d products, got %d", len(seed.Products), got)
	}
	if got := countRows(t, "users"); got != len(seed.Users) {
		t.Fatalf("expected %d users, got %d", len(seed.Users), got)
	}

	// Every seed product carries images
	products := countRows(t, "products")
	images := countRows(t, "product_images")
	if images < products {
		t.Fatalf("expected at least one image per product, got %d images for %d products", images, products)
	}

	// Seed users authenticate with their seed passwords
	for _, su := range seed.Users {
		user, err := users.FindByEmail(ctx, su.Email)
		if err != nil {
			t.Fatalf("seed user %s not found: %v", su.Email, err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(su.Password)); err != nil {
			t.Fatalf("seed user %s password not stored as matching hash: %v", su.Email, err)
		}
	}
}

func TestSeedRunIsRepeatable(t *testing.T) {
	seedService, _ := newTestSeed(t)
	ctx := context.Background()

	if err := seedService.Run(ctx); err != nil {
		t.Fatalf("first seed run failed: %v", err)
	}
	firstProducts := countRows(t, "products")
	firstImages := countRows(t, "product_images")

	if err := seedService.Run(ctx); err != nil {
		t.Fatalf("second seed run failed: %v", err)
	}

	if got := countRows(t, "products"); got != firstProducts {
		t.Fatalf("product cardinality changed across reseeds: %d vs %d", firstProducts, got)
	}
	if got := countRows(t, "product_images"); got != firstImages {
		t.Fatalf("image cardinality changed across reseeds: %d vs %d", firstImages, got)
	}
	if got := countRows(t, "users"); got != len(seed.Users) {
		t.Fatalf("expected %d users after reseed, got %d", len(seed.Users), got)
	}
}

func TestSeedProductsAttributedToFirstUser(t *testing.T) {
	seedService, users := newTestSeed(t)
	ctx := context.Background()

	if err := seedService.Run(ctx); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	admin, err := users.FindByEmail(ctx, seed.Users[0].Email)
	if err != nil {
		t.Fatalf("first seed user not found: %v", err)
	}

	var orphaned int
	err = testPool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE user_id IS DISTINCT FROM $1`, admin.ID,
	).Scan(&orphaned)
	if err != nil {
		t.Fatalf("failed to count products: %v", err)
	}
	if orphaned != 0 {
		t.Fatalf("expected every seed product owned by %s, %d are not", admin.Email, orphaned)
	}
}
